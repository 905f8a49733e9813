package core

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/domain"
)

// Registry tracks the live connection of every identity.
// It is not safe for concurrent use; the lifecycle owner serializes access.
type Registry struct {
	byUser map[domain.UserID]*Connection
	bySID  map[SessionID]*Connection
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[domain.UserID]*Connection),
		bySID:  make(map[SessionID]*Connection),
	}
}

// Register creates or replaces the entry for id. The replaced entry,
// if any, is returned and is no longer reachable from the registry;
// closing its transport is the caller's job.
func (r *Registry) Register(sid SessionID, id domain.Identity, sig SignalConnection) (conn, prev *Connection) {
	prev = r.byUser[id.ID]
	if prev != nil {
		delete(r.bySID, prev.sid)
	}
	conn = newConnection(sid, id, sig)
	r.byUser[id.ID] = conn
	r.bySID[sid] = conn
	log.Debug().Str("module", "core.registry").Str("sid", string(sid)).Str("user", string(id.ID)).Bool("replaced", prev != nil).Msg("registered")
	return conn, prev
}

// Lookup returns the current connection of an identity.
func (r *Registry) Lookup(id domain.UserID) (*Connection, bool) {
	c, ok := r.byUser[id]
	return c, ok
}

// Session returns the connection of a transport session, if it is still current.
func (r *Registry) Session(sid SessionID) (*Connection, bool) {
	c, ok := r.bySID[sid]
	return c, ok
}

// Remove deletes the entry of an identity. No-op if absent.
func (r *Registry) Remove(id domain.UserID) {
	c, ok := r.byUser[id]
	if !ok {
		return
	}
	delete(r.byUser, id)
	delete(r.bySID, c.sid)
	log.Debug().Str("module", "core.registry").Str("sid", string(c.sid)).Str("user", string(id)).Msg("removed")
}

func (r *Registry) Len() int { return len(r.byUser) }

// Connections returns every registered connection, in no particular order.
func (r *Registry) Connections() []*Connection {
	out := make([]*Connection, 0, len(r.byUser))
	for _, c := range r.byUser {
		out = append(out, c)
	}
	return out
}
