package orch

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/app"
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
)

// The broadcast router only reads the registry and the membership table.
// Every function here expects o.mu to be held by the caller.

// audience resolves the members of board, minus except, to their live connections.
func (o *Orchestrator) audience(board domain.BoardID, except domain.UserID) []*core.Connection {
	members := o.rooms.Members(board)
	out := make([]*core.Connection, 0, len(members))
	for _, m := range members {
		if m.ID == except {
			continue
		}
		conn, ok := o.registry.Lookup(m.ID)
		if !ok {
			log.Error().Str("module", "app.router").Str("user", string(m.ID)).Str("board", string(board)).Msg("member without connection")
			continue
		}
		out = append(out, conn)
	}
	return out
}

// publish encodes once and fans out to the audience. Returns the number
// of connections the frame was queued for.
func (o *Orchestrator) publish(board domain.BoardID, except domain.UserID, event domain.EventName, data any) int {
	frame, err := core.EncodeFrame(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Str("board", string(board)).Msg("encode failed")
		return 0
	}
	sent := 0
	for _, conn := range o.audience(board, except) {
		if o.deliver(board, conn, frame) {
			sent++
		}
	}
	log.Debug().Str("module", "app.router").Str("event", string(event)).Str("board", string(board)).Int("sent_to", sent).Msg("broadcast result")
	return sent
}

// sendTo delivers one event to a single connection.
func (o *Orchestrator) sendTo(conn *core.Connection, event domain.EventName, data any) bool {
	frame, err := core.EncodeFrame(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Str("sid", string(conn.SID())).Msg("encode failed")
		return false
	}
	return o.deliver("", conn, frame)
}

// deliver is at-most-once: a full queue loses the frame and the policy
// decides the fate of the slow connection.
func (o *Orchestrator) deliver(board domain.BoardID, conn *core.Connection, frame core.Frame) bool {
	err := conn.Signal().TrySend(frame)
	if err == nil {
		return true
	}
	if !errors.Is(err, core.ErrBackpressure) || o.Policy == nil {
		log.Debug().Err(err).Str("module", "app.router").Str("sid", string(conn.SID())).Msg("frame dropped")
		return false
	}

	action := o.Policy.OnBackPressure(board, conn.Identity())
	log.Warn().Str("module", "app.router").Str("sid", string(conn.SID())).Str("user", string(conn.Identity().ID)).Str("action", action.String()).Msg("backpressure")
	if action == app.KickMember {
		// The transport's read loop exits and runs Disconnect.
		conn.Signal().Close()
	}
	return false
}
