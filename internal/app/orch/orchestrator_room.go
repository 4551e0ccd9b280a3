package orch

import (
	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/dkeye/Interview/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Join adds sid to the interview room. Existing members learn the joiner's
// peer id; the joiner gets a snapshot of everyone already there.
func (o *Orchestrator) Join(sid core.SessionID, interviewID domain.InterviewID, peerID string) {
	sess, ok := o.session(sid)
	if !ok {
		return
	}
	user := sess.Meta().User

	frames := core.JoinFrames{
		Announce: protocol.MustEncode(protocol.UserConnected, protocol.UserConnectedPayload{
			PeerID:   peerID,
			UserID:   user.ID,
			UserName: user.Username,
		}),
		Existing: func(members []core.MemberView) core.Frame {
			return protocol.MustEncode(protocol.ExistingUsers, members)
		},
	}
	res := o.Rooms.Join(interviewID, sid, sess, peerID, frames)
	log.Info().
		Str("module", "orch").
		Str("sid", string(sid)).
		Str("interview", string(interviewID)).
		Str("peer", peerID).
		Int("existing", len(res.Existing)).
		Msg("joined interview")

	if room, ok := o.Rooms.GetRoom(interviewID); ok {
		o.applyPolicy(room, res.Publish)
	}
}
