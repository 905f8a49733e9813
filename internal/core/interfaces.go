package core

//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_core.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Presence/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is one encoded wire envelope.
type Frame []byte

// SignalConnection abstracts the transport of one live session.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking. ErrBackpressure when the queue is full.
	TrySend(Frame) error
	Close()
}

// Verifier turns a caller-presented credential into an identity.
type Verifier interface {
	Verify(ctx context.Context, credential string) (domain.Identity, error)
}

// NameResolver looks up the display name of an identity.
// An empty name with a nil error means "unknown".
type NameResolver interface {
	DisplayName(ctx context.Context, id domain.UserID) (string, error)
}

// EncodeFrame wraps data into an envelope for event.
func EncodeFrame(event domain.EventName, data any) (Frame, error) {
	env := domain.Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		env.Data = raw
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return b, nil
}
