package core

import (
	"sort"
	"sync"
	"time"

	"github.com/dkeye/Interview/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type roomEntry struct {
	session MemberSession
	peerID  string
	seq     uint64
}

func (e *roomEntry) view() MemberView {
	u := e.session.Meta().User
	return MemberView{PeerID: e.peerID, UserID: u.ID, UserName: u.Username}
}

// roomImpl is a threadsafe in-memory room.
// All membership changes and the fan-out tied to them happen under mu,
// so snapshots and announcements are linearized per room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room   *domain.Room
	mu     sync.RWMutex
	bySID  map[SessionID]*roomEntry
	seq    uint64
	closed bool
}

func NewRoomService(room *domain.Room) RoomService {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	return &roomImpl{
		room:  room,
		bySID: make(map[SessionID]*roomEntry),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) Join(sid SessionID, ms MemberSession, peerID string, frames JoinFrames) (JoinResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return JoinResult{}, false
	}

	res := JoinResult{Existing: r.snapshotLocked(sid)}
	entry, ok := r.bySID[sid]
	if ok {
		entry.session = ms
		entry.peerID = peerID
	} else {
		r.seq++
		r.bySID[sid] = &roomEntry{session: ms, peerID: peerID, seq: r.seq}
		res.Added = true
	}

	if frames.Announce != nil {
		res.Publish = r.sendLocked(sid, false, frames.Announce)
	}
	if len(res.Existing) > 0 && frames.Existing != nil {
		if err := ms.Signal().TrySend(frames.Existing(res.Existing)); err != nil {
			res.Publish.Dropped = append(res.Publish.Dropped, ms)
		} else {
			res.Publish.SendTo++
		}
	}

	log.Info().
		Str("module", "core.room").
		Str("interview", string(r.room.ID)).
		Str("sid", string(sid)).
		Str("user", string(ms.Meta().User.ID)).
		Bool("added", res.Added).
		Int("existing", len(res.Existing)).
		Msg("member joined")
	return res, true
}

func (r *roomImpl) RemoveMember(sid SessionID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[sid]; ok {
		delete(r.bySID, sid)
		log.Info().Str("module", "core.room").Str("interview", string(r.room.ID)).Str("sid", string(sid)).Msg("member removed")
	}
	return len(r.bySID)
}

func (r *roomImpl) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bySID) > 0 {
		return false
	}
	r.closed = true
	return true
}

func (r *roomImpl) Broadcast(from SessionID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := r.sendLocked(from, false, data)
	log.Debug().Str("module", "core.room").Str("from", string(from)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) BroadcastAll(data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := r.sendLocked("", true, data)
	log.Debug().Str("module", "core.room").Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast all result")
	return res
}

func (r *roomImpl) MembersSnapshot() []MemberView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked("")
}

func (r *roomImpl) sendLocked(from SessionID, inclusive bool, data Frame) PublishResult {
	res := PublishResult{}
	for sid, e := range r.bySID {
		if sid == from && !inclusive {
			continue
		}
		if err := e.session.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, e.session)
			continue
		}
		res.SendTo++
	}
	return res
}

// snapshotLocked lists members in join order, skipping except.
func (r *roomImpl) snapshotLocked(except SessionID) []MemberView {
	entries := lo.Filter(lo.Entries(r.bySID), func(kv lo.Entry[SessionID, *roomEntry], _ int) bool {
		return kv.Key != except
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Value.seq < entries[j].Value.seq })
	return lo.Map(entries, func(kv lo.Entry[SessionID, *roomEntry], _ int) MemberView {
		return kv.Value.view()
	})
}
