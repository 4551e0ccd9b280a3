package orch

import (
	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/dkeye/Interview/internal/protocol"
	"github.com/rs/zerolog/log"
)

// deliver pushes a frame to a user's personal channel. Offline targets and
// full queues are dropped silently.
func (o *Orchestrator) deliver(uid domain.UserID, f core.Frame) bool {
	target, ok := o.Registry.Personal(uid)
	if !ok {
		log.Debug().Str("module", "orch").Str("user", string(uid)).Msg("personal channel offline, dropped")
		return false
	}
	if err := target.Signal().TrySend(f); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("user", string(uid)).Msg("personal channel send failed")
		return false
	}
	return true
}

func (o *Orchestrator) SendInterviewRequest(sid core.SessionID, receiverID domain.UserID) {
	sess, ok := o.session(sid)
	if !ok {
		return
	}
	sender := sess.Meta().User
	log.Info().Str("module", "orch").Str("from", string(sender.ID)).Str("to", string(receiverID)).Msg("interview request")
	o.deliver(receiverID, protocol.MustEncode(protocol.InterviewRequestReceived, protocol.InterviewRequestReceivedPayload{
		SenderID:   sender.ID,
		SenderName: sender.Username,
	}))
}

func (o *Orchestrator) AcceptInterviewRequest(sid core.SessionID, senderID domain.UserID, interviewID domain.InterviewID) {
	sess, ok := o.session(sid)
	if !ok {
		return
	}
	receiver := sess.Meta().User
	log.Info().Str("module", "orch").Str("by", string(receiver.ID)).Str("sender", string(senderID)).Str("interview", string(interviewID)).Msg("interview request accepted")

	navigate := protocol.MustEncode(protocol.NavigateToInterview, interviewID)
	o.deliver(senderID, protocol.MustEncode(protocol.InterviewRequestAccepted, protocol.InterviewRequestAcceptedPayload{
		ReceiverID:   receiver.ID,
		ReceiverName: receiver.Username,
		InterviewID:  interviewID,
	}))
	o.deliver(senderID, navigate)
	o.deliver(receiver.ID, navigate)
}

// StartPeerSession sends both users straight to the interview, skipping the
// request/accept exchange.
func (o *Orchestrator) StartPeerSession(sid core.SessionID, user1ID, user2ID domain.UserID, interviewID domain.InterviewID) {
	if _, ok := o.session(sid); !ok {
		return
	}
	log.Info().Str("module", "orch").Str("user1", string(user1ID)).Str("user2", string(user2ID)).Str("interview", string(interviewID)).Msg("peer session started")
	navigate := protocol.MustEncode(protocol.NavigateToInterview, interviewID)
	o.deliver(user1ID, navigate)
	o.deliver(user2ID, navigate)
}
