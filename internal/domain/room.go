package domain

import "time"

// InterviewID is the opaque session identifier chosen by the accepting side.
// It keys the room both peers join.
type InterviewID string

type Room struct {
	ID        InterviewID
	CreatedAt time.Time
}
