package orch

import (
	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/dkeye/Interview/internal/protocol"
	"github.com/rs/zerolog/log"
)

// SendMessage relays chat to every member of the room, sender included.
// A room nobody joined yields nothing.
func (o *Orchestrator) SendMessage(sid core.SessionID, interviewID domain.InterviewID, message string) {
	sess, ok := o.session(sid)
	if !ok {
		return
	}
	room, ok := o.Rooms.GetRoom(interviewID)
	if !ok {
		log.Debug().Str("module", "orch").Str("interview", string(interviewID)).Msg("chat to empty room dropped")
		return
	}
	res := room.BroadcastAll(protocol.MustEncode(protocol.ReceiveMessage, protocol.ReceiveMessagePayload{
		Sender:  sess.Meta().User.Username,
		Message: message,
	}))
	o.applyPolicy(room, res)
}

// CodeUpdate relays an editor change to everyone but the sender.
func (o *Orchestrator) CodeUpdate(sid core.SessionID, interviewID domain.InterviewID, code string) {
	if _, ok := o.session(sid); !ok {
		return
	}
	room, ok := o.Rooms.GetRoom(interviewID)
	if !ok {
		log.Debug().Str("module", "orch").Str("interview", string(interviewID)).Msg("code update to empty room dropped")
		return
	}
	res := room.Broadcast(sid, protocol.MustEncode(protocol.CodeUpdate, protocol.CodeUpdateOutPayload{Code: code}))
	o.applyPolicy(room, res)
}
