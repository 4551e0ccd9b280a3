// Package protocol defines the hub's event catalog and its JSON framing.
//
// Every frame is {"type": <event>, "data": <payload>}. Inbound payloads are
// validated on decode; the hub drops anything that fails.
package protocol

import (
	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
)

type EventType string

// client → hub
const (
	SendInterviewRequest   EventType = "send-interview-request"
	AcceptInterviewRequest EventType = "accept-interview-request"
	StartPeerSession       EventType = "start-peer-session"
	JoinInterview          EventType = "join-interview"
	SendMessage            EventType = "send-message"
	Ping                   EventType = "ping"
)

// hub → client
const (
	InterviewRequestReceived EventType = "interview-request-received"
	InterviewRequestAccepted EventType = "interview-request-accepted"
	NavigateToInterview      EventType = "navigate-to-interview"
	UserConnected            EventType = "user-connected"
	ExistingUsers            EventType = "existing-users"
	ReceiveMessage           EventType = "receive-message"
	Pong                     EventType = "pong"
)

// both directions, with different payloads
const CodeUpdate EventType = "code-update"

type SendInterviewRequestPayload struct {
	ReceiverID domain.UserID `json:"receiverId" validate:"required,max=64"`
}

type AcceptInterviewRequestPayload struct {
	SenderID    domain.UserID      `json:"senderId" validate:"required,max=64"`
	InterviewID domain.InterviewID `json:"interviewId" validate:"required,max=128"`
}

type StartPeerSessionPayload struct {
	User1ID     domain.UserID      `json:"user1Id" validate:"required,max=64"`
	User2ID     domain.UserID      `json:"user2Id" validate:"required,max=64"`
	InterviewID domain.InterviewID `json:"interviewId" validate:"required,max=128"`
}

type JoinInterviewPayload struct {
	InterviewID domain.InterviewID `json:"interviewId" validate:"required,max=128"`
	PeerID      string             `json:"peerId" validate:"max=256"`
}

type SendMessagePayload struct {
	InterviewID domain.InterviewID `json:"interviewId" validate:"required,max=128"`
	Message     string             `json:"message" validate:"required,max=8192"`
}

// CodeUpdatePayload is the inbound shape; the editor may legitimately be empty.
type CodeUpdatePayload struct {
	InterviewID domain.InterviewID `json:"interviewId" validate:"required,max=128"`
	Code        string             `json:"code"`
}

type InterviewRequestReceivedPayload struct {
	SenderID   domain.UserID `json:"senderId"`
	SenderName string        `json:"senderName"`
}

type InterviewRequestAcceptedPayload struct {
	ReceiverID   domain.UserID      `json:"receiverId"`
	ReceiverName string             `json:"receiverName"`
	InterviewID  domain.InterviewID `json:"interviewId"`
}

type ReceiveMessagePayload struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type CodeUpdateOutPayload struct {
	Code string `json:"code"`
}

// UserConnectedPayload and the existing-users entries share one shape.
type UserConnectedPayload = core.MemberView
