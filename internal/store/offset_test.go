package store_test

import (
	"context"
	"testing"

	"github.com/VladPetriv/telegram_bot/internal/store"
	"github.com/VladPetriv/telegram_bot/internal/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ telegram.OffsetStore = store.NewOffset(nil)

func TestOffset_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background() //nolint: forbidigo

	testCaseDB := createTestDB(t, "offset_get")
	offsetStore := store.NewOffset(testCaseDB)

	t.Run("missing key defaults to zero", func(t *testing.T) {
		offset, err := offsetStore.Get(ctx, "telegram-last-update")
		require.NoError(t, err)
		assert.Zero(t, offset)
	})

	t.Run("returns stored value", func(t *testing.T) {
		err := offsetStore.Set(ctx, "stored-last-update", 41)
		require.NoError(t, err)

		offset, err := offsetStore.Get(ctx, "stored-last-update")
		require.NoError(t, err)
		assert.Equal(t, int64(41), offset)
	})
}

func TestOffset_Set(t *testing.T) {
	t.Parallel()

	ctx := context.Background() //nolint: forbidigo

	testCaseDB := createTestDB(t, "offset_set")
	offsetStore := store.NewOffset(testCaseDB)

	t.Run("creates entry", func(t *testing.T) {
		err := offsetStore.Set(ctx, "telegram-last-update", 5)
		require.NoError(t, err)

		offset, err := offsetStore.Get(ctx, "telegram-last-update")
		require.NoError(t, err)
		assert.Equal(t, int64(5), offset)
	})

	t.Run("overwrites entry on conflict", func(t *testing.T) {
		err := offsetStore.Set(ctx, "telegram-last-update", 7)
		require.NoError(t, err)

		offset, err := offsetStore.Get(ctx, "telegram-last-update")
		require.NoError(t, err)
		assert.Equal(t, int64(7), offset)
	})

	t.Run("keys are independent", func(t *testing.T) {
		err := offsetStore.Set(ctx, "staging-last-update", 100)
		require.NoError(t, err)

		offset, err := offsetStore.Get(ctx, "telegram-last-update")
		require.NoError(t, err)
		assert.Equal(t, int64(7), offset)
	})
}
