package core

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/Interview/internal/domain"
	"github.com/stretchr/testify/require"
)

type captureConn struct {
	mu     sync.Mutex
	frames []Frame
	full   bool
}

func (c *captureConn) TrySend(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errors.New("full")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *captureConn) Close() {}

func (c *captureConn) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		out = append(out, string(f))
	}
	return out
}

func newSession(id, name string) (MemberSession, *captureConn) {
	conn := &captureConn{}
	return NewMemberSession(domain.NewMember(&domain.User{ID: domain.UserID(id), Username: name}), conn), conn
}

func joinFrames(tag string) JoinFrames {
	return JoinFrames{
		Announce: Frame("announce:" + tag),
		Existing: func(v []MemberView) Frame { return Frame(fmt.Sprintf("existing:%s:%d", tag, len(v))) },
	}
}

func TestRoom_Join_Is_Idempotent_Per_Connection(t *testing.T) {
	req := require.New(t)
	room := NewRoomService(&domain.Room{ID: "room-42"})
	a, _ := newSession("u1", "Alice")

	// When the same connection joins twice
	res1, ok := room.Join("sid-a", a, "peerA", joinFrames("a"))
	req.True(ok)
	res2, ok := room.Join("sid-a", a, "peerA2", joinFrames("a"))
	req.True(ok)

	// Then there is one membership entry carrying the latest peer id
	req.True(res1.Added)
	req.False(res2.Added)
	req.Equal(1, room.MemberCount())
	req.Equal([]MemberView{{PeerID: "peerA2", UserID: "u1", UserName: "Alice"}}, room.MembersSnapshot())
}

func TestRoom_Join_Announces_To_Others_Only(t *testing.T) {
	req := require.New(t)
	room := NewRoomService(&domain.Room{ID: "room-42"})
	a, connA := newSession("u1", "Alice")
	b, connB := newSession("u2", "Bob")
	c, connC := newSession("u3", "Carol")

	// Given A and B in the room
	room.Join("sid-a", a, "peerA", joinFrames("a"))
	room.Join("sid-b", b, "peerB", joinFrames("b"))

	// When C joins
	res, _ := room.Join("sid-c", c, "peerC", joinFrames("c"))

	// Then A and B get C's announcement and C gets the snapshot only
	req.Contains(connA.received(), "announce:c")
	req.Contains(connB.received(), "announce:c")
	req.Equal([]string{"existing:c:2"}, connC.received())
	req.Equal([]MemberView{
		{PeerID: "peerA", UserID: "u1", UserName: "Alice"},
		{PeerID: "peerB", UserID: "u2", UserName: "Bob"},
	}, res.Existing)
	req.Equal(3, res.Publish.SendTo)
}

func TestRoom_First_Joiner_Gets_No_Snapshot(t *testing.T) {
	req := require.New(t)
	room := NewRoomService(&domain.Room{ID: "room-42"})
	a, connA := newSession("u1", "Alice")

	res, _ := room.Join("sid-a", a, "peerA", joinFrames("a"))

	req.Empty(res.Existing)
	req.Empty(connA.received())
}

func TestRoom_Concurrent_Joins_Snapshot_Is_Consistent(t *testing.T) {
	req := require.New(t)
	room := NewRoomService(&domain.Room{ID: "room-42"})
	a, _ := newSession("u1", "Alice")
	room.Join("sid-a", a, "peerA", joinFrames("a"))

	const n = 32
	results := make([]JoinResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, _ := newSession(fmt.Sprintf("u-%d", i), "x")
			results[i], _ = room.Join(SessionID(fmt.Sprintf("sid-%d", i)), s, fmt.Sprintf("peer-%d", i), JoinFrames{})
		}(i)
	}
	wg.Wait()

	// Every snapshot size is distinct: joins were linearized
	req.Equal(n+1, room.MemberCount())
	seen := make(map[int]bool)
	for _, r := range results {
		req.False(seen[len(r.Existing)], "two joins observed the same membership size")
		seen[len(r.Existing)] = true
		ids := make(map[domain.UserID]bool)
		for _, v := range r.Existing {
			req.False(ids[v.UserID], "duplicate member in snapshot")
			ids[v.UserID] = true
		}
		req.True(ids["u1"])
	}
}

func TestRoom_Broadcast_Inclusion_Rules(t *testing.T) {
	req := require.New(t)
	room := NewRoomService(&domain.Room{ID: "room-42"})
	a, connA := newSession("u1", "Alice")
	b, connB := newSession("u2", "Bob")
	room.Join("sid-a", a, "peerA", JoinFrames{})
	room.Join("sid-b", b, "peerB", JoinFrames{})

	res := room.Broadcast("sid-a", Frame("code"))
	req.Equal(1, res.SendTo)
	req.Empty(connA.received())
	req.Equal([]string{"code"}, connB.received())

	res = room.BroadcastAll(Frame("chat"))
	req.Equal(2, res.SendTo)
	req.Equal([]string{"chat"}, connA.received())
	req.Equal([]string{"code", "chat"}, connB.received())
}

func TestRoom_Broadcast_Reports_Dropped(t *testing.T) {
	req := require.New(t)
	room := NewRoomService(&domain.Room{ID: "room-42"})
	a, _ := newSession("u1", "Alice")
	b, connB := newSession("u2", "Bob")
	connB.full = true
	room.Join("sid-a", a, "peerA", JoinFrames{})
	room.Join("sid-b", b, "peerB", JoinFrames{})

	res := room.Broadcast("sid-a", Frame("code"))

	req.Equal(0, res.SendTo)
	req.Equal([]MemberSession{b}, res.Dropped)
}

func TestRoom_Closed_Room_Rejects_Join(t *testing.T) {
	req := require.New(t)
	room := NewRoomService(&domain.Room{ID: "room-42"})
	a, _ := newSession("u1", "Alice")

	room.Join("sid-a", a, "peerA", JoinFrames{})
	req.False(room.CloseIfEmpty())
	req.Equal(0, room.RemoveMember("sid-a"))
	req.True(room.CloseIfEmpty())

	_, ok := room.Join("sid-a", a, "peerA", JoinFrames{})
	req.False(ok)
}
