package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/app"
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
)

// Join adds the session's identity to board and announces it to the
// other members. Joining a board twice changes nothing and stays silent.
func (o *Orchestrator) Join(sid core.SessionID, board domain.BoardID) error {
	if err := board.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	conn, ok := o.registry.Session(sid)
	if !ok {
		return domain.ErrNotConnected
	}
	id := conn.Identity()

	added := o.rooms.Join(board, domain.NewMember(id, o.Now()))
	conn.AddRoom(board)
	if !added {
		return nil
	}

	n := o.publish(board, id.ID, domain.EventPresenceJoined, domain.PresencePayload{Identity: id, BoardID: board})
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("user", string(id.ID)).Str("board", string(board)).Int("notified", n).Msg("joined board")
	return nil
}

// Leave removes the session's identity from board. Peers are not told;
// only a disconnect produces presence.left.
func (o *Orchestrator) Leave(sid core.SessionID, board domain.BoardID) error {
	if err := board.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	conn, ok := o.registry.Session(sid)
	if !ok {
		return domain.ErrNotConnected
	}
	id := conn.Identity()
	defer conn.RemoveRoom(board)

	if !o.rooms.Exists(board) {
		return domain.ErrUnknownRoom
	}
	if !o.rooms.Leave(board, id.ID) {
		return domain.ErrNotAMember
	}
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("user", string(id.ID)).Str("board", string(board)).Msg("left board")
	return nil
}

// Activity relays a client activity to every other member of its board,
// stamped with the sender and the server time. Senders outside the board
// get ErrNotAMember or ErrUnknownRoom and nothing is delivered.
func (o *Orchestrator) Activity(sid core.SessionID, act domain.Activity) error {
	if err := act.BoardID.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	conn, ok := o.registry.Session(sid)
	if !ok {
		return domain.ErrNotConnected
	}
	id := conn.Identity()

	if !o.rooms.Exists(act.BoardID) {
		return domain.ErrUnknownRoom
	}
	if !o.rooms.IsMember(act.BoardID, id.ID) {
		return domain.ErrNotAMember
	}
	if !o.Limiter.Allow(id.ID) {
		return app.ErrRateLimited
	}
	if !act.Kind.Known() {
		log.Debug().Str("module", "app.orch").Str("kind", string(act.Kind)).Str("board", string(act.BoardID)).Msg("relaying unknown activity kind")
	}

	evt := domain.ActivityEvent{Sender: id, Activity: act, Timestamp: o.Now()}
	o.publish(act.BoardID, id.ID, domain.EventActivity, evt)
	return nil
}

// Members returns the current members of board; empty when the room does not exist.
func (o *Orchestrator) Members(board domain.BoardID) []domain.Member {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rooms.Members(board)
}

func (o *Orchestrator) Rooms() []core.RoomInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rooms.List()
}

// WhoAmI describes the session's identity and joined boards.
func (o *Orchestrator) WhoAmI(sid core.SessionID) (domain.WhoAmIPayload, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	conn, ok := o.registry.Session(sid)
	if !ok {
		return domain.WhoAmIPayload{}, false
	}
	return domain.WhoAmIPayload{Identity: conn.Identity(), Boards: conn.Rooms()}, true
}
