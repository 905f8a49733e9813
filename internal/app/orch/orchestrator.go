package orch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/app"
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
)

// Orchestrator is the lifecycle manager: the single writer of the
// connection registry and the membership table. Every transition runs
// under one lock, so both structures always change together.
type Orchestrator struct {
	Verifier core.Verifier
	Names    core.NameResolver
	Policy   app.Policy
	Limiter  *app.RateLimiter
	Now      func() time.Time
	NewSID   func() core.SessionID

	mu       sync.Mutex
	registry *core.Registry
	rooms    *core.Membership
}

func New(verifier core.Verifier) *Orchestrator {
	return &Orchestrator{
		Verifier: verifier,
		Policy:   app.DropPolicy{},
		Now:      time.Now,
		NewSID:   func() core.SessionID { return core.SessionID(uuid.NewString()) },
		registry: core.NewRegistry(),
		rooms:    core.NewMembership(),
	}
}

// Admit verifies a credential and resolves the display name. It runs
// before any state exists; a failure is always ErrUnauthenticated.
func (o *Orchestrator) Admit(ctx context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing credential", domain.ErrUnauthenticated)
	}
	id, err := o.Verifier.Verify(ctx, credential)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return domain.Identity{}, err
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if o.Names == nil {
		return id, nil
	}

	name, err := o.Names.DisplayName(ctx, id.ID)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("user", string(id.ID)).Msg("display name lookup failed, keeping token name")
		return id, nil
	}
	if name == "" {
		return id, nil
	}
	return domain.NewIdentity(id.ID, name)
}

// Connect registers a verified identity on a new transport and greets it
// with presence.online. A previous connection of the same identity is
// torn down like a disconnect and its transport is closed.
func (o *Orchestrator) Connect(id domain.Identity, sig core.SignalConnection) core.SessionID {
	sid := o.NewSID()

	o.mu.Lock()
	defer o.mu.Unlock()

	if prev, ok := o.registry.Lookup(id.ID); ok {
		o.teardown(prev)
		o.registry.Remove(id.ID)
		prev.Signal().Close()
		log.Info().Str("module", "app.orch").Str("user", string(id.ID)).Str("old_sid", string(prev.SID())).Str("sid", string(sid)).Msg("superseded previous connection")
	}

	conn, _ := o.registry.Register(sid, id, sig)
	o.sendTo(conn, domain.EventPresenceOnline, domain.OnlinePayload{ID: id.ID})
	log.Info().Str("module", "app.orch").Str("user", string(id.ID)).Str("sid", string(sid)).Msg("connected")
	return sid
}

// Disconnect leaves every board of the session, telling the remaining
// members, and drops the registry entry. Unknown or superseded sessions
// are a no-op, so it is safe to call more than once.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	conn, ok := o.registry.Session(sid)
	if !ok {
		return
	}
	id := conn.Identity().ID
	o.teardown(conn)
	o.registry.Remove(id)
	o.Limiter.Forget(id)
	log.Info().Str("module", "app.orch").Str("user", string(id)).Str("sid", string(sid)).Msg("disconnected")
}

// teardown snapshots the joined boards, then leaves each of them and
// sends presence.left to whoever remains. Caller holds o.mu.
func (o *Orchestrator) teardown(conn *core.Connection) {
	id := conn.Identity()
	for _, board := range conn.Rooms() {
		o.rooms.Leave(board, id.ID)
		conn.RemoveRoom(board)
		o.publish(board, id.ID, domain.EventPresenceLeft, domain.PresencePayload{Identity: id, BoardID: board})
	}
}

type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}

func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Stats{Rooms: o.rooms.Len(), Connections: o.registry.Len()}
}
