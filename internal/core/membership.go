package core

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/dkeye/Presence/internal/domain"
)

// room is the member set of one board. It exists only while non-empty.
type room struct {
	members map[domain.UserID]domain.Member
}

type RoomInfo struct {
	BoardID     domain.BoardID `json:"boardId"`
	MemberCount int            `json:"count"`
}

// Membership tracks, per board, the identities currently joined.
// It is not safe for concurrent use; the lifecycle owner serializes access.
type Membership struct {
	rooms map[domain.BoardID]*room
}

func NewMembership() *Membership {
	return &Membership{rooms: make(map[domain.BoardID]*room)}
}

// Join adds m to the board, creating the room on first join.
// Joining twice has no further effect; the first JoinedAt is kept.
func (t *Membership) Join(b domain.BoardID, m domain.Member) bool {
	r, ok := t.rooms[b]
	if !ok {
		r = &room{members: make(map[domain.UserID]domain.Member)}
		t.rooms[b] = r
	}
	if _, ok := r.members[m.ID]; ok {
		return false
	}
	r.members[m.ID] = m
	return true
}

// Leave removes id from the board and drops the room once empty.
// Reports whether id was a member.
func (t *Membership) Leave(b domain.BoardID, id domain.UserID) bool {
	r, ok := t.rooms[b]
	if !ok {
		return false
	}
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	if len(r.members) == 0 {
		delete(t.rooms, b)
	}
	return true
}

// Members returns a snapshot ordered by join time. Unknown boards yield an empty slice.
func (t *Membership) Members(b domain.BoardID) []domain.Member {
	r, ok := t.rooms[b]
	if !ok {
		return []domain.Member{}
	}
	out := lo.Values(r.members)
	slices.SortFunc(out, func(a, b domain.Member) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (t *Membership) IsMember(b domain.BoardID, id domain.UserID) bool {
	r, ok := t.rooms[b]
	if !ok {
		return false
	}
	_, ok = r.members[id]
	return ok
}

func (t *Membership) Exists(b domain.BoardID) bool {
	_, ok := t.rooms[b]
	return ok
}

func (t *Membership) Count(b domain.BoardID) int {
	if r, ok := t.rooms[b]; ok {
		return len(r.members)
	}
	return 0
}

func (t *Membership) Len() int { return len(t.rooms) }

// List returns every live room ordered by board id.
func (t *Membership) List() []RoomInfo {
	out := make([]RoomInfo, 0, len(t.rooms))
	for b, r := range t.rooms {
		out = append(out, RoomInfo{BoardID: b, MemberCount: len(r.members)})
	}
	slices.SortFunc(out, func(a, b RoomInfo) int { return cmp.Compare(a.BoardID, b.BoardID) })
	return out
}
