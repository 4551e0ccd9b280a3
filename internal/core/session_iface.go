package core

import "github.com/dkeye/Interview/internal/domain"

// SessionID identifies one live connection, not a user.
type SessionID string

// MemberSession binds domain.Member and its transport endpoint.
// This is what the registry and rooms store and fan out to.
type MemberSession interface {
	Meta() *domain.Member
	Signal() SignalConnection
}
