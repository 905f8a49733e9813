package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Presence/internal/domain"
)

type nopSignal struct{ closed bool }

func (n *nopSignal) TrySend(Frame) error { return nil }
func (n *nopSignal) Close()              { n.closed = true }

func ident(id string) domain.Identity {
	return domain.Identity{ID: domain.UserID(id), DisplayName: id}
}

func TestRegistry_RegisterLookup(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	conn, prev := r.Register("s1", ident("alice"), &nopSignal{})
	req.Nil(prev)
	req.Equal(SessionID("s1"), conn.SID())

	got, ok := r.Lookup("alice")
	req.True(ok)
	req.Same(conn, got)

	got, ok = r.Session("s1")
	req.True(ok)
	req.Same(conn, got)
	req.Equal(1, r.Len())
}

func TestRegistry_ReplaceDropsOldSession(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	first, _ := r.Register("s1", ident("alice"), &nopSignal{})
	second, prev := r.Register("s2", ident("alice"), &nopSignal{})

	req.Same(first, prev)
	req.Equal(1, r.Len())

	_, ok := r.Session("s1")
	req.False(ok, "superseded session must not resolve")

	got, ok := r.Lookup("alice")
	req.True(ok)
	req.Same(second, got)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	r.Register("s1", ident("alice"), &nopSignal{})

	r.Remove("alice")
	r.Remove("alice")
	r.Remove("nobody")

	req.Equal(0, r.Len())
	_, ok := r.Session("s1")
	req.False(ok)
	req.Empty(r.Connections())
}

func TestConnection_Rooms(t *testing.T) {
	req := require.New(t)
	conn := newConnection("s1", ident("alice"), &nopSignal{})

	conn.AddRoom("b2")
	conn.AddRoom("b1")
	conn.AddRoom("b2")
	req.Equal([]domain.BoardID{"b1", "b2"}, conn.Rooms())
	req.True(conn.InRoom("b1"))

	conn.RemoveRoom("b1")
	conn.RemoveRoom("missing")
	req.Equal([]domain.BoardID{"b2"}, conn.Rooms())
	req.False(conn.InRoom("b1"))
}

func TestEncodeFrame(t *testing.T) {
	req := require.New(t)

	f, err := EncodeFrame(domain.EventPong, nil)
	req.NoError(err)
	req.JSONEq(`{"event":"pong"}`, string(f))

	f, err = EncodeFrame(domain.EventPresenceOnline, domain.OnlinePayload{ID: "alice"})
	req.NoError(err)
	req.JSONEq(`{"event":"presence.online","data":{"identity":"alice"}}`, string(f))

	_, err = EncodeFrame(domain.EventNotification, func() {})
	req.Error(err)
}
