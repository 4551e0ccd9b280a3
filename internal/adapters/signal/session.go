package signal

import (
	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleSendRequest(sid core.SessionID, env protocol.Envelope) {
	p, ok := decode[protocol.SendInterviewRequestPayload](sid, env)
	if !ok {
		return
	}
	if sess, ok := ctl.Orch.Registry.GetSession(sid); ok && ctl.limiter != nil {
		uid := sess.Meta().User.ID
		if !ctl.limiter.Allow(uid) {
			log.Warn().Str("module", "signal").Str("user", string(uid)).Msg("interview request rate limited")
			return
		}
	}
	ctl.Orch.SendInterviewRequest(sid, p.ReceiverID)
}

func (ctl *SignalWSController) handleAcceptRequest(sid core.SessionID, env protocol.Envelope) {
	p, ok := decode[protocol.AcceptInterviewRequestPayload](sid, env)
	if !ok {
		return
	}
	ctl.Orch.AcceptInterviewRequest(sid, p.SenderID, p.InterviewID)
}

func (ctl *SignalWSController) handleStartPeerSession(sid core.SessionID, env protocol.Envelope) {
	p, ok := decode[protocol.StartPeerSessionPayload](sid, env)
	if !ok {
		return
	}
	ctl.Orch.StartPeerSession(sid, p.User1ID, p.User2ID, p.InterviewID)
}
