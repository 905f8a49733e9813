package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Presence/internal/domain"
)

// Notify pushes a notification to the current connection of id.
// Delivery is best effort: an absent identity is silently dropped.
func (o *Orchestrator) Notify(id domain.UserID, msg any) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	conn, ok := o.registry.Lookup(id)
	if !ok {
		log.Debug().Str("module", "app.orch").Str("user", string(id)).Msg("notify: not connected")
		return false
	}
	return o.sendTo(conn, domain.EventNotification, msg)
}

// Broadcast pushes a notification to every member of board.
func (o *Orchestrator) Broadcast(board domain.BoardID, msg any) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.publish(board, "", domain.EventNotification, msg)
}

// BroadcastUpdate pushes a typed change event (board.updated, task.updated, ...)
// to every member of board.
func (o *Orchestrator) BroadcastUpdate(board domain.BoardID, kind domain.UpdateKind, update any) (int, error) {
	event, ok := kind.Event()
	if !ok {
		return 0, domain.ErrUnknownUpdateKind
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.publish(board, "", event, update), nil
}
