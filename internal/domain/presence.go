package domain

// Presence mirrors the flags kept in the external user store.
type Presence struct {
	IsOnline                    bool `json:"isOnline"`
	IsAvailableForMockInterview bool `json:"isAvailableForMockInterview"`
}

// PresenceUpdate is a partial write: a nil Available leaves the stored
// availability untouched.
type PresenceUpdate struct {
	UserID    UserID
	Online    bool
	Available *bool
}

func OnlineUpdate(id UserID) PresenceUpdate {
	return PresenceUpdate{UserID: id, Online: true}
}

func OfflineUpdate(id UserID) PresenceUpdate {
	available := false
	return PresenceUpdate{UserID: id, Online: false, Available: &available}
}

// Merge applies next on top of u, as if both were written in order.
func (u PresenceUpdate) Merge(next PresenceUpdate) PresenceUpdate {
	out := next
	if out.Available == nil {
		out.Available = u.Available
	}
	return out
}

// Apply folds the update into a stored presence value.
func (u PresenceUpdate) Apply(p Presence) Presence {
	p.IsOnline = u.Online
	if u.Available != nil {
		p.IsAvailableForMockInterview = *u.Available
	}
	return p
}
