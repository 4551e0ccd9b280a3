package signal

import (
	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/protocol"
)

func (ctl *SignalWSController) handleJoin(sid core.SessionID, env protocol.Envelope) {
	p, ok := decode[protocol.JoinInterviewPayload](sid, env)
	if !ok {
		return
	}
	ctl.Orch.Join(sid, p.InterviewID, p.PeerID)
}

func (ctl *SignalWSController) handleSendMessage(sid core.SessionID, env protocol.Envelope) {
	p, ok := decode[protocol.SendMessagePayload](sid, env)
	if !ok {
		return
	}
	ctl.Orch.SendMessage(sid, p.InterviewID, p.Message)
}

func (ctl *SignalWSController) handleCodeUpdate(sid core.SessionID, env protocol.Envelope) {
	p, ok := decode[protocol.CodeUpdatePayload](sid, env)
	if !ok {
		return
	}
	ctl.Orch.CodeUpdate(sid, p.InterviewID, p.Code)
}
