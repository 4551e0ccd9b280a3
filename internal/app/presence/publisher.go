// Package presence writes online/availability flags through to the user
// store without ever blocking a connection.
package presence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("presence publisher closed")

// Publisher is a single-worker actor. Pending writes are coalesced per user,
// so its memory is bounded by the number of distinct users and the last
// state published for a user is the one that reaches the store.
type Publisher struct {
	store   core.PresenceStore
	timeout time.Duration
	logger  zerolog.Logger

	mu      sync.Mutex
	pending map[domain.UserID]domain.PresenceUpdate
	order   []domain.UserID
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func NewPublisher(store core.PresenceStore, writeTimeout time.Duration) *Publisher {
	p := &Publisher{
		store:   store,
		timeout: writeTimeout,
		logger:  log.With().Str("module", "app.presence").Logger(),
		pending: make(map[domain.UserID]domain.PresenceUpdate),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Publisher) Publish(u domain.PresenceUpdate) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn().Str("user", string(u.UserID)).Msg("publish after close dropped")
		return
	}
	if prev, ok := p.pending[u.UserID]; ok {
		p.pending[u.UserID] = prev.Merge(u)
	} else {
		p.pending[u.UserID] = u
		p.order = append(p.order, u.UserID)
	}
	// wake is closed under mu, so signal while still holding it.
	select {
	case p.wake <- struct{}{}:
	default:
	}
	p.mu.Unlock()
}

// Close stops accepting updates and waits for pending ones to be written.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.wake)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) loop() {
	defer close(p.done)
	for range p.wake {
		p.drain()
	}
	p.drain()
}

func (p *Publisher) drain() {
	for {
		u, ok := p.next()
		if !ok {
			return
		}
		p.write(u)
	}
}

func (p *Publisher) next() (domain.PresenceUpdate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.order) == 0 {
		return domain.PresenceUpdate{}, false
	}
	uid := p.order[0]
	p.order = p.order[1:]
	u := p.pending[uid]
	delete(p.pending, uid)
	return u, true
}

func (p *Publisher) write(u domain.PresenceUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.store.UpdatePresence(ctx, u); err != nil {
		p.logger.Error().Err(err).Str("user", string(u.UserID)).Bool("online", u.Online).Msg("presence write failed")
		return
	}
	p.logger.Debug().Str("user", string(u.UserID)).Bool("online", u.Online).Msg("presence written")
}
