package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestRoomManager_Empty_Room_Is_Removed(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager()

	// Given two connections in one room
	rooms.Join("room-42", "sid-a", session("u1"), "peerA", core.JoinFrames{})
	rooms.Join("room-42", "sid-b", session("u2"), "peerB", core.JoinFrames{})
	req.Len(rooms.List(), 1)

	// When the first leaves the room stays
	req.Equal([]domain.InterviewID{"room-42"}, rooms.LeaveAll("sid-a"))
	room, ok := rooms.GetRoom("room-42")
	req.True(ok)
	req.Equal(1, room.MemberCount())

	// When the last leaves the room is gone
	rooms.LeaveAll("sid-b")
	_, ok = rooms.GetRoom("room-42")
	req.False(ok)
	req.Empty(rooms.List())
}

func TestRoomManager_LeaveAll_Covers_Every_Room(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager()
	sess := session("u1")

	rooms.Join("room-1", "sid-a", sess, "peerA", core.JoinFrames{})
	rooms.Join("room-2", "sid-a", sess, "peerA", core.JoinFrames{})
	rooms.Join("room-2", "sid-b", session("u2"), "peerB", core.JoinFrames{})

	req.ElementsMatch([]domain.InterviewID{"room-1", "room-2"}, rooms.LeaveAll("sid-a"))
	req.Empty(rooms.LeaveAll("sid-a"))

	_, ok := rooms.GetRoom("room-1")
	req.False(ok)
	room, ok := rooms.GetRoom("room-2")
	req.True(ok)
	req.Equal([]core.MemberView{{PeerID: "peerB", UserID: "u2", UserName: "u2"}}, room.MembersSnapshot())
}

func TestRoomManager_Join_Survives_Concurrent_Teardown(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := core.SessionID(fmt.Sprintf("churn-%d", i))
			rooms.Join("room-42", sid, session(string(sid)), "p", core.JoinFrames{})
			rooms.LeaveAll(sid)
		}(i)
	}
	stay := session("stay")
	wg.Add(1)
	go func() {
		defer wg.Done()
		rooms.Join("room-42", "sid-stay", stay, "peer", core.JoinFrames{})
	}()
	wg.Wait()

	// The stayer always ends up in the live room
	room, ok := rooms.GetRoom("room-42")
	req.True(ok)
	req.Equal(1, room.MemberCount())
	req.Equal(domain.UserID("stay"), room.MembersSnapshot()[0].UserID)
}
