package app

import (
	"sync"

	"github.com/dkeye/Interview/internal/core"
	"github.com/dkeye/Interview/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManagerImpl owns the interview rooms and a reverse index from
// connection to the rooms it joined. Lock order is manager, then room.
type RoomManagerImpl struct {
	mu       sync.RWMutex
	rooms    map[domain.InterviewID]core.RoomService
	memberOf map[core.SessionID]map[domain.InterviewID]struct{}
}

func NewRoomManager() core.RoomManager {
	return &RoomManagerImpl{
		rooms:    make(map[domain.InterviewID]core.RoomService),
		memberOf: make(map[core.SessionID]map[domain.InterviewID]struct{}),
	}
}

func (f *RoomManagerImpl) getOrCreate(id domain.InterviewID) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[id]; ok {
		return room
	}
	room = core.NewRoomService(&domain.Room{ID: id})
	f.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("interview", string(id)).Msg("room created")
	return room
}

func (f *RoomManagerImpl) Join(id domain.InterviewID, sid core.SessionID, ms core.MemberSession, peerID string, frames core.JoinFrames) core.JoinResult {
	for {
		room := f.getOrCreate(id)
		res, ok := room.Join(sid, ms, peerID, frames)
		if !ok {
			// Room was torn down between lookup and join; it is already
			// gone from the map, so the next lookup creates a fresh one.
			continue
		}
		f.mu.Lock()
		rooms, ok := f.memberOf[sid]
		if !ok {
			rooms = make(map[domain.InterviewID]struct{})
			f.memberOf[sid] = rooms
		}
		rooms[id] = struct{}{}
		f.mu.Unlock()
		return res
	}
}

func (f *RoomManagerImpl) GetRoom(id domain.InterviewID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) LeaveAll(sid core.SessionID) []domain.InterviewID {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := f.memberOf[sid]
	delete(f.memberOf, sid)
	left := make([]domain.InterviewID, 0, len(rooms))
	for id := range rooms {
		room, ok := f.rooms[id]
		if !ok {
			continue
		}
		left = append(left, id)
		if room.RemoveMember(sid) == 0 && room.CloseIfEmpty() {
			delete(f.rooms, id)
			log.Info().Str("module", "app.rooms").Str("interview", string(id)).Msg("room removed")
		}
	}
	return left
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: r.MemberCount(), CreatedAt: r.Room().CreatedAt})
	}
	return out
}
