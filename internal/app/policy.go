package app

import (
	"fmt"

	"github.com/dkeye/Interview/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a member whose outbound queue was full.
type Policy interface {
	OnBackPressure(room core.RoomService, member core.MemberSession) BackpressureAction
}

// SimplePolicy kicks a stalled member so its queue cannot pin memory.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room core.RoomService, member core.MemberSession) BackpressureAction {
	return KickMember
}

// LenientPolicy only drops the frame for the stalled member.
type LenientPolicy struct{}

func (LenientPolicy) OnBackPressure(core.RoomService, core.MemberSession) BackpressureAction {
	return DropFrame
}

// PolicyFor maps the ws.backpressure setting to a policy.
func PolicyFor(name string) (Policy, error) {
	switch name {
	case "", "kick":
		return SimplePolicy{}, nil
	case "drop":
		return LenientPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
