package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dkeye/Interview/internal/app/orch"
	"github.com/dkeye/Interview/internal/config"
	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

type SignalWSController struct {
	Orch     *orch.Orchestrator
	cfg      config.WSConfig
	limiter  *RequestRateLimiter
	upgrader websocket.Upgrader

	// conns counts read pumps that have not yet run OnDisconnect.
	conns sync.WaitGroup
}

func NewSignalWSController(o *orch.Orchestrator, cfg config.WSConfig, allowedOrigins []string, limiter *RequestRateLimiter) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		cfg:     cfg,
		limiter: limiter,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigins),
		},
	}
}

// checkOrigin allows any origin when the whitelist is empty. Requests
// without an Origin header are not from browsers and pass.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || lo.Contains(allowed, origin)
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{conn: ws, send: make(chan core.Frame, buffer)}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and runs the connection. A nil user
// leaves the connection open but unregistered: its events are ignored.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context, user *domain.User) {
	// Forward headers set before the upgrade, such as the session cookie.
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, c.Writer.Header())
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	sid := core.SessionID(uuid.NewString())
	conn := newWsSignalConn(ws, ctl.cfg.SendBuffer)
	ctx, cancel := context.WithCancel(ctx)

	if user != nil {
		sess := core.NewMemberSession(domain.NewMember(user), conn)
		ctl.Orch.Admit(sid, sess, cancel)
	} else {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("remote", c.ClientIP()).Msg("connection without identity left unregistered")
	}

	ctl.conns.Add(1)
	go ctl.writePump(ctx, sid, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}

// Wait blocks until every connection has been evicted. Call it after the
// handler context is cancelled and the HTTP server has stopped accepting.
func (ctl *SignalWSController) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		ctl.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
