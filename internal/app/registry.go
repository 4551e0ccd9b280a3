package app

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type sessionEntry struct {
	Session core.MemberSession
	Cancel  context.CancelFunc
}

// Registry maps live connections to their sessions and each user to their
// live connections, oldest first. The newest one owns the personal channel.
//
// Presence is published under mu, together with the change that caused it,
// so the last update a user's record receives always matches the registry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	byUser   map[domain.UserID][]core.SessionID
	presence core.PresencePublisher
}

// NewRegistry builds an empty registry. presence may be nil.
func NewRegistry(presence core.PresencePublisher) *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		byUser:   make(map[domain.UserID][]core.SessionID),
		presence: presence,
	}
}

// Bind registers sid, makes it authoritative for its user and marks the
// user online. It returns the connection it superseded, if any.
func (r *Registry) Bind(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) (core.SessionID, bool) {
	uid := sess.Meta().User.ID
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Session: sess, Cancel: cancel}

	conns := slices.DeleteFunc(r.byUser[uid], func(s core.SessionID) bool { return s == sid })
	prev, had := lo.Last(conns)
	r.byUser[uid] = append(conns, sid)
	r.publish(domain.OnlineUpdate(uid))

	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(uid)).Int("connections", len(r.byUser[uid])).Msg("bound session")
	if had {
		log.Info().Str("module", "app.registry").Str("sid", string(prev)).Str("user", string(uid)).Msg("session superseded")
		return prev, true
	}
	return "", false
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

// Unbind drops sid and reports how many connections its user still has.
// The most recent remaining one takes over the personal channel; when
// none remain the user is marked offline.
func (r *Registry) Unbind(sid core.SessionID) (sess core.MemberSession, remaining int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, 0, false
	}
	delete(r.sessions, sid)
	uid := e.Session.Meta().User.ID

	conns := slices.DeleteFunc(r.byUser[uid], func(s core.SessionID) bool { return s == sid })
	remaining = len(conns)
	if remaining == 0 {
		delete(r.byUser, uid)
		r.publish(domain.OfflineUpdate(uid))
	} else {
		r.byUser[uid] = conns
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(uid)).Int("remaining", remaining).Msg("unbind session")
	return e.Session, remaining, true
}

// Personal resolves the personal channel of a user.
func (r *Registry) Personal(uid domain.UserID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := lo.Last(r.byUser[uid])
	if !ok {
		return nil, false
	}
	return r.sessions[sid].Session, true
}

// SIDOf finds the connection id of a session; used when policy acts on
// the sessions a broadcast reported as dropped.
func (r *Registry) SIDOf(sess core.MemberSession) (core.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for sid, e := range r.sessions {
		if e.Session == sess {
			return sid, true
		}
	}
	return "", false
}

func (r *Registry) OnlineUsers() []domain.UserID {
	r.mu.RLock()
	ids := lo.Keys(r.byUser)
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

// publish must be called with mu held. Publish never blocks.
func (r *Registry) publish(u domain.PresenceUpdate) {
	if r.presence != nil {
		r.presence.Publish(u)
	}
}
