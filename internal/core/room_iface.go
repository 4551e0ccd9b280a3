package core

import (
	"time"

	"github.com/dkeye/Interview/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// MemberView is the signaling record peers exchange (no transport fields).
type MemberView struct {
	PeerID   string        `json:"peerId"`
	UserID   domain.UserID `json:"userId"`
	UserName string        `json:"userName"`
}

// JoinFrames carries the encoded events a join fans out.
// Existing is only called when the room already had other members.
type JoinFrames struct {
	Announce Frame
	Existing func([]MemberView) Frame
}

type JoinResult struct {
	// Existing is the membership snapshot taken atomically with the insert,
	// without the joiner itself.
	Existing []MemberView
	Added    bool
	Publish  PublishResult
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []MemberView

	// Join reports false when the room was already closed by its manager.
	Join(sid SessionID, ms MemberSession, peerID string, frames JoinFrames) (JoinResult, bool)
	RemoveMember(sid SessionID) (remaining int)
	// CloseIfEmpty marks an empty room closed so no later Join can land in it.
	CloseIfEmpty() bool

	// Broadcast excludes the sender; BroadcastAll does not.
	Broadcast(from SessionID, data Frame) PublishResult
	BroadcastAll(data Frame) PublishResult
}

type RoomInfo struct {
	ID          domain.InterviewID `json:"interviewId"`
	MemberCount int                `json:"member_count"`
	CreatedAt   time.Time          `json:"created_at"`
}

type RoomManager interface {
	Join(id domain.InterviewID, sid SessionID, ms MemberSession, peerID string, frames JoinFrames) JoinResult
	GetRoom(id domain.InterviewID) (RoomService, bool)
	// LeaveAll removes sid from every room it joined and drops rooms left empty.
	LeaveAll(sid SessionID) []domain.InterviewID
	List() []RoomInfo
}
