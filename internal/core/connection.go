package core

import (
	"slices"

	"github.com/samber/lo"

	"github.com/dkeye/Presence/internal/domain"
)

// SessionID identifies one transport session. A reconnecting identity
// gets a fresh SessionID, so events from a superseded transport never
// resolve to the new connection.
type SessionID string

// Connection binds an identity, its transport endpoint and the set of
// boards it has joined. This is what the registry stores.
type Connection struct {
	sid      SessionID
	identity domain.Identity
	signal   SignalConnection
	rooms    map[domain.BoardID]struct{}
}

func newConnection(sid SessionID, id domain.Identity, sig SignalConnection) *Connection {
	return &Connection{
		sid:      sid,
		identity: id,
		signal:   sig,
		rooms:    make(map[domain.BoardID]struct{}),
	}
}

func (c *Connection) SID() SessionID            { return c.sid }
func (c *Connection) Identity() domain.Identity { return c.identity }
func (c *Connection) Signal() SignalConnection  { return c.signal }

func (c *Connection) InRoom(b domain.BoardID) bool {
	_, ok := c.rooms[b]
	return ok
}

// Rooms returns a sorted snapshot of the joined boards.
func (c *Connection) Rooms() []domain.BoardID {
	out := lo.Keys(c.rooms)
	slices.Sort(out)
	return out
}

// AddRoom and RemoveRoom mutate the per-connection room set. They are
// only called by the lifecycle owner together with the Membership table.
func (c *Connection) AddRoom(b domain.BoardID)    { c.rooms[b] = struct{}{} }
func (c *Connection) RemoveRoom(b domain.BoardID) { delete(c.rooms, b) }
