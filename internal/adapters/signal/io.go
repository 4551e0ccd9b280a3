package signal

import (
	"context"
	"time"

	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	logger := log.With().Str("module", "signal").Str("sid", string(sid)).Logger()
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				logger.Debug().Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				logger.Error().Err(err).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Warn().Err(err).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				logger.Warn().Err(err).Msg("writePump ping failed")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	logger := log.With().Str("module", "signal").Str("sid", string(sid)).Logger()
	defer ctl.conns.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("readPump recovered")
		}
		ctl.Orch.OnDisconnect(sid)
		cancel()
		c.Close()
		logger.Info().Msg("readPump closed")
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	})

	for {
		if ctx.Err() != nil {
			logger.Debug().Msg("readPump ctx done")
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("readPump read error")
			}
			return
		}
		ctl.handleSignal(sid, c, data)
	}
}

func (ctl *SignalWSController) handleSignal(sid core.SessionID, c *WsSignalConn, data []byte) {
	env, err := protocol.ParseEnvelope(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad frame dropped")
		return
	}

	switch env.Type {
	case protocol.SendInterviewRequest:
		ctl.handleSendRequest(sid, env)
	case protocol.AcceptInterviewRequest:
		ctl.handleAcceptRequest(sid, env)
	case protocol.StartPeerSession:
		ctl.handleStartPeerSession(sid, env)
	case protocol.JoinInterview:
		ctl.handleJoin(sid, env)
	case protocol.SendMessage:
		ctl.handleSendMessage(sid, env)
	case protocol.CodeUpdate:
		ctl.handleCodeUpdate(sid, env)
	case protocol.Ping:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", string(env.Type)).Msg("unknown signal")
	}
}

// decode logs and reports false for payloads the hub must ignore.
func decode[T any](sid core.SessionID, env protocol.Envelope) (T, bool) {
	p, err := protocol.Decode[T](env)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid payload dropped")
		return p, false
	}
	return p, true
}
