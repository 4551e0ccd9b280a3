package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Interview/internal/core"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Envelope is the inbound frame before its payload is decoded.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outbound struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("bad envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("bad envelope: missing type")
	}
	return env, nil
}

// Decode unmarshals env.Data into T and validates it.
func Decode[T any](env Envelope) (T, error) {
	var p T
	if len(env.Data) == 0 {
		return p, fmt.Errorf("%s: missing data", env.Type)
	}
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return p, fmt.Errorf("%s: bad payload: %w", env.Type, err)
	}
	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("%s: invalid payload: %w", env.Type, err)
	}
	return p, nil
}

func Encode(t EventType, data any) (core.Frame, error) {
	b, err := json.Marshal(outbound{Type: t, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return b, nil
}

// MustEncode is for payloads built from plain strings and structs of
// strings, which always marshal.
func MustEncode(t EventType, data any) core.Frame {
	f, err := Encode(t, data)
	if err != nil {
		panic(err)
	}
	return f
}
