//go:generate go run go.uber.org/mock/mockgen -source=presence_iface.go -destination=../../mocks/mock_presence.go -package=mocks
package core

import (
	"context"

	"github.com/dkeye/Interview/internal/domain"
)

// PresenceStore is the external user-record store. Only the online and
// availability flags are written from the hub.
type PresenceStore interface {
	UpdatePresence(ctx context.Context, u domain.PresenceUpdate) error
}

// PresencePublisher hands presence writes off the connection path.
// Publish must not block on the store.
type PresencePublisher interface {
	Publish(u domain.PresenceUpdate)
}
