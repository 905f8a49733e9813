package app

import "github.com/dkeye/Presence/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

func (a BackpressureAction) String() string {
	switch a {
	case DropFrame:
		return "drop"
	case KickMember:
		return "kick"
	}
	return "none"
}

// Policy decides what happens to a member whose send queue is full.
// The frame itself is always lost.
type Policy interface {
	OnBackPressure(board domain.BoardID, member domain.Identity) BackpressureAction
}

// SimplePolicy disconnects slow members.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.BoardID, domain.Identity) BackpressureAction {
	return KickMember
}

// DropPolicy keeps slow members connected and just loses the frame.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.BoardID, domain.Identity) BackpressureAction {
	return DropFrame
}

// PolicyByName maps the config value to a Policy. Unknown names fall back to DropPolicy.
func PolicyByName(name string) Policy {
	if name == KickMember.String() {
		return SimplePolicy{}
	}
	return DropPolicy{}
}
