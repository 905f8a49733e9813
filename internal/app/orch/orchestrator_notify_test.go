package orch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
)

func TestNotify(t *testing.T) {
	req := require.New(t)
	o := newTestOrch()
	_, aliceSig := connect(o, "alice")

	req.True(o.Notify("alice", map[string]any{"title": "assigned"}))
	frames := aliceSig.take()
	req.Len(frames, 1)
	req.Equal(domain.EventNotification, frames[0].Event)
	req.JSONEq(`{"title":"assigned"}`, string(frames[0].Data))

	req.False(o.Notify("nobody", map[string]any{"title": "lost"}))
}

func TestBroadcast_IncludesEveryMember(t *testing.T) {
	req := require.New(t)
	o := newTestOrch()
	aliceSID, aliceSig := connect(o, "alice")
	bobSID, bobSig := connect(o, "bob")
	_, carolSig := connect(o, "carol")
	req.NoError(o.Join(aliceSID, "b1"))
	req.NoError(o.Join(bobSID, "b1"))
	aliceSig.take()

	req.Equal(2, o.Broadcast("b1", map[string]any{"text": "deploy"}))
	req.Equal([]domain.EventName{domain.EventNotification}, aliceSig.events())
	req.Equal([]domain.EventName{domain.EventNotification}, bobSig.events())
	req.Empty(carolSig.events())

	req.Equal(0, o.Broadcast("ghost", map[string]any{"text": "nobody"}))
}

func TestBroadcastUpdate(t *testing.T) {
	req := require.New(t)
	o := newTestOrch()
	aliceSID, aliceSig := connect(o, "alice")
	req.NoError(o.Join(aliceSID, "b1"))

	n, err := o.BroadcastUpdate("b1", domain.UpdateColumn, map[string]any{"id": 4})
	req.NoError(err)
	req.Equal(1, n)
	req.Equal([]domain.EventName{domain.EventColumnUpdated}, aliceSig.events())

	_, err = o.BroadcastUpdate("b1", "comment", nil)
	req.ErrorIs(err, domain.ErrUnknownUpdateKind)
}

func TestWhoAmI(t *testing.T) {
	req := require.New(t)
	o := newTestOrch()
	sid, _ := connect(o, "alice")
	req.NoError(o.Join(sid, "b2"))
	req.NoError(o.Join(sid, "b1"))

	who, ok := o.WhoAmI(sid)
	req.True(ok)
	req.Equal([]domain.BoardID{"b1", "b2"}, who.Boards)

	_, ok = o.WhoAmI(core.SessionID("sid-unknown"))
	req.False(ok)

	req.Equal([]core.RoomInfo{{BoardID: "b1", MemberCount: 1}, {BoardID: "b2", MemberCount: 1}}, o.Rooms())
}
