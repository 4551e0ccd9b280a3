package orch

import (
	"context"

	"github.com/dkeye/Interview/internal/app"
	"github.com/dkeye/Interview/internal/core"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the hub. Each connection calls into it from its own read
// goroutine; shared state is only touched through Registry and Rooms.
// The Registry publishes presence.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
}

// Admit registers a connection and marks its user online. A session without
// a user id is never registered and the call reports false.
func (o *Orchestrator) Admit(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) bool {
	user := sess.Meta().User
	if user == nil || user.ID == "" {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("admission without identity ignored")
		return false
	}
	o.Registry.Bind(sid, sess, cancel)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("user", string(user.ID)).Str("name", user.Username).Msg("admitted")
	return true
}

// OnDisconnect evicts sid from every room it joined, then from the
// registry. Rooms go first so a user observed offline is in no room.
// Safe to call for connections that were never admitted and safe to repeat.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	left := o.Rooms.LeaveAll(sid)
	sess, remaining, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	log.Info().
		Str("module", "orch").
		Str("sid", string(sid)).
		Str("user", string(sess.Meta().User.ID)).
		Int("rooms_left", len(left)).
		Int("connections_left", remaining).
		Msg("disconnected")
}

// session resolves the admitted session behind sid. Events from unknown
// connections are dropped by every handler.
func (o *Orchestrator) session(sid core.SessionID) (core.MemberSession, bool) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("event from unregistered connection dropped")
	}
	return sess, ok
}

func (o *Orchestrator) applyPolicy(room core.RoomService, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			o.kick(slow)
		case app.DropFrame, app.NoAction:
		}
	}
}

// kick closes a stalled connection. Its read loop then runs OnDisconnect,
// so eviction stays on the owning goroutine.
func (o *Orchestrator) kick(sess core.MemberSession) {
	if sid, ok := o.Registry.SIDOf(sess); ok {
		o.Registry.Cancel(sid)
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("kicked for backpressure")
	}
	sess.Signal().Close()
}
