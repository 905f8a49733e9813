package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	t.Run("should trim display name", func(t *testing.T) {
		req := require.New(t)
		id, err := NewIdentity("u1", "  Alice  ")
		req.NoError(err)
		req.Equal(UserID("u1"), id.ID)
		req.Equal("Alice", id.DisplayName)
	})

	t.Run("should fall back to the id when name is blank", func(t *testing.T) {
		req := require.New(t)
		id, err := NewIdentity("u1", "   ")
		req.NoError(err)
		req.Equal("u1", id.DisplayName)
	})

	t.Run("should truncate long names by rune", func(t *testing.T) {
		req := require.New(t)
		id, err := NewIdentity("u1", strings.Repeat("é", MaxDisplayNameLen+10))
		req.NoError(err)
		req.Equal(MaxDisplayNameLen, len([]rune(id.DisplayName)))
	})

	t.Run("should reject empty id", func(t *testing.T) {
		_, err := NewIdentity("", "Alice")
		require.ErrorIs(t, err, ErrUserIDEmpty)
	})

	t.Run("should reject oversized id", func(t *testing.T) {
		_, err := NewIdentity(UserID(strings.Repeat("x", MaxUserIDLen+1)), "")
		require.ErrorIs(t, err, ErrUserIDTooLong)
	})
}

func TestBoardID_Validate(t *testing.T) {
	req := require.New(t)
	req.NoError(BoardID("b1").Validate())
	req.ErrorIs(BoardID("").Validate(), ErrBoardIDEmpty)
	req.ErrorIs(BoardID(strings.Repeat("b", MaxBoardIDLen+1)).Validate(), ErrBoardIDTooLong)
}
