package domain

import "time"

// Member represents an identity's participation in a board room.
// No transport or lifecycle logic here.
type Member struct {
	Identity
	JoinedAt time.Time `json:"joinedAt"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(id Identity, at time.Time) Member {
	return Member{Identity: id, JoinedAt: at}
}
