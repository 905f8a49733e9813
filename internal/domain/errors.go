package domain

import "errors"

var (
	// ErrUnauthenticated is the only failure a client ever observes:
	// the transport is refused before any state is created.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotAMember      = errors.New("not a member of board")
	ErrUnknownRoom     = errors.New("unknown board room")
	ErrNotConnected    = errors.New("identity not connected")

	ErrUserIDEmpty    = errors.New("user id empty")
	ErrUserIDTooLong  = errors.New("user id too long")
	ErrBoardIDEmpty   = errors.New("board id empty")
	ErrBoardIDTooLong = errors.New("board id too long")
	ErrBadPayload     = errors.New("bad payload")

	ErrUnknownUpdateKind = errors.New("unknown update kind")
)
