package signal

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Interview/internal/app"
	"github.com/dkeye/Interview/internal/app/orch"
	"github.com/dkeye/Interview/internal/config"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	updates []domain.PresenceUpdate
}

func (p *recordingPublisher) Publish(u domain.PresenceUpdate) {
	p.mu.Lock()
	p.updates = append(p.updates, u)
	p.mu.Unlock()
}

func (p *recordingPublisher) all() []domain.PresenceUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PresenceUpdate(nil), p.updates...)
}

func testWSConfig() config.WSConfig {
	return config.WSConfig{
		ReadLimit:    65536,
		SendBuffer:   16,
		PingPeriod:   time.Minute,
		PongWait:     2 * time.Minute,
		WriteWait:    time.Second,
		Backpressure: "kick",
	}
}

// serve mounts ctl under /ws, admitting every connection as the user named
// by the userId query parameter.
func serve(t *testing.T, ctx context.Context, ctl *SignalWSController) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c, &domain.User{ID: domain.UserID(c.Query("userId"))})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?userId=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// A pong means the connection was admitted and is being read
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&f))
	require.Equal(t, "pong", f.Type)
	return conn
}

func TestSignalWSController_Wait_Covers_Disconnects(t *testing.T) {
	req := require.New(t)
	pub := &recordingPublisher{}
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(pub),
		Rooms:    app.NewRoomManager(),
		Policy:   app.SimplePolicy{},
	}
	ctl := NewSignalWSController(o, testWSConfig(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := serve(t, ctx, ctl)

	// Given two users are connected
	dial(t, srv, "u1")
	dial(t, srv, "u2")
	req.Equal(2, o.Registry.Count())

	// While they are, Wait does not return
	short, stop := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer stop()
	req.ErrorIs(ctl.Wait(short), context.DeadlineExceeded)

	// When the server context is cancelled
	cancel()
	waitCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	req.NoError(ctl.Wait(waitCtx))

	// Then both users were evicted and marked offline before Wait returned
	req.Zero(o.Registry.Count())
	updates := pub.all()
	req.Contains(updates, domain.OfflineUpdate("u1"))
	req.Contains(updates, domain.OfflineUpdate("u2"))
}
