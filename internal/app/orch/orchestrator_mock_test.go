package orch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/Presence/internal/app"
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
	"github.com/dkeye/Presence/internal/mocks"
)

func TestOrchestrator_Admit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mocks.NewMockVerifier(ctrl)
	names := mocks.NewMockNameResolver(ctrl)
	o := New(verifier)
	o.Names = names
	ctx := context.Background()

	t.Run("should use the stored display name when one exists", func(t *testing.T) {
		req := require.New(t)
		verifier.EXPECT().Verify(gomock.Any(), "tok").Return(domain.Identity{ID: "u1", DisplayName: "token name"}, nil)
		names.EXPECT().DisplayName(gomock.Any(), domain.UserID("u1")).Return("Stored Name", nil)

		id, err := o.Admit(ctx, "tok")
		req.NoError(err)
		req.Equal(domain.Identity{ID: "u1", DisplayName: "Stored Name"}, id)
	})

	t.Run("should keep the token name when lookup fails", func(t *testing.T) {
		req := require.New(t)
		verifier.EXPECT().Verify(gomock.Any(), "tok").Return(domain.Identity{ID: "u1", DisplayName: "token name"}, nil)
		names.EXPECT().DisplayName(gomock.Any(), domain.UserID("u1")).Return("", errors.New("redis down"))

		id, err := o.Admit(ctx, "tok")
		req.NoError(err)
		req.Equal("token name", id.DisplayName)
	})

	t.Run("should keep the token name when none is stored", func(t *testing.T) {
		req := require.New(t)
		verifier.EXPECT().Verify(gomock.Any(), "tok").Return(domain.Identity{ID: "u1", DisplayName: "token name"}, nil)
		names.EXPECT().DisplayName(gomock.Any(), domain.UserID("u1")).Return("", nil)

		id, err := o.Admit(ctx, "tok")
		req.NoError(err)
		req.Equal("token name", id.DisplayName)
	})

	t.Run("should refuse an invalid credential", func(t *testing.T) {
		req := require.New(t)
		verifier.EXPECT().Verify(gomock.Any(), "bad").Return(domain.Identity{}, errors.New("signature is invalid"))
		names.EXPECT().DisplayName(gomock.Any(), gomock.Any()).Times(0)

		_, err := o.Admit(ctx, "bad")
		req.ErrorIs(err, domain.ErrUnauthenticated)
	})

	t.Run("should refuse a missing credential without verifying", func(t *testing.T) {
		req := require.New(t)
		verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)

		_, err := o.Admit(ctx, "")
		req.ErrorIs(err, domain.ErrUnauthenticated)
		req.Equal(0, o.Stats().Connections, "admission creates no state")
	})
}

func TestOrchestrator_Backpressure(t *testing.T) {
	tests := []struct {
		name      string
		policy    app.Policy
		wantClose bool
	}{
		{name: "kick policy closes the slow connection", policy: app.SimplePolicy{}, wantClose: true},
		{name: "drop policy keeps the slow connection", policy: app.DropPolicy{}, wantClose: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			o := newTestOrch()
			o.Policy = tt.policy

			slow := mocks.NewMockSignalConnection(ctrl)
			gomock.InOrder(
				slow.EXPECT().TrySend(gomock.Any()).Return(nil),
				slow.EXPECT().TrySend(gomock.Any()).Return(core.ErrBackpressure),
			)
			if tt.wantClose {
				slow.EXPECT().Close().Times(1)
			}

			slowSID := o.Connect(domain.Identity{ID: "slow", DisplayName: "slow"}, slow)
			req.NoError(o.Join(slowSID, "b1"))

			aliceSID, _ := connect(o, "alice")
			req.NoError(o.Join(aliceSID, "b1"), "a full peer queue never fails the sender")

			// Membership is unchanged until the transport's read loop disconnects.
			req.Len(o.Members("b1"), 2)
			requireConsistent(t, o)
		})
	}
}

func TestOrchestrator_ClosedPeerIsSkipped(t *testing.T) {
	req := require.New(t)
	o := newTestOrch()
	o.Policy = app.SimplePolicy{}
	aliceSID, _ := connect(o, "alice")
	bobSID, bobSig := connect(o, "bob")
	carolSID, carolSig := connect(o, "carol")
	req.NoError(o.Join(aliceSID, "b1"))
	req.NoError(o.Join(bobSID, "b1"))
	req.NoError(o.Join(carolSID, "b1"))
	carolSig.take()

	bobSig.Close()
	n := o.Broadcast("b1", map[string]any{"msg": "hi"})
	req.Equal(2, n, "alice and carol still receive")
	req.Len(carolSig.take(), 1)
}

func TestOrchestrator_FullQueueDropsFrame(t *testing.T) {
	req := require.New(t)
	o := newTestOrch()
	aliceSID, aliceSig := connect(o, "alice")
	bobSID, bobSig := connect(o, "bob")
	req.NoError(o.Join(aliceSID, "b1"))
	req.NoError(o.Join(bobSID, "b1"))
	aliceSig.take()

	bobSig.full = true
	req.NoError(o.Activity(aliceSID, domain.Activity{Kind: domain.ActivityCursor, BoardID: "b1"}))
	req.False(bobSig.isClosed(), "default policy drops the frame only")
	req.Empty(bobSig.events())
}
