package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish11112222/naha2/internal/domain"
	"github.com/fish11112222/naha2/internal/service"
)

func TestThemeService(t *testing.T) {
	storage := newStorage(t)
	svc := service.NewThemeService(storage)
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		state, err := svc.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, state.CurrentTheme)
		assert.Equal(t, "Classic Blue", state.CurrentTheme.Name)
		assert.Len(t, state.AvailableThemes, 6)
	})

	t.Run("Set", func(t *testing.T) {
		state, err := svc.Set(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "Purple Dreams", state.CurrentTheme.Name)
	})

	t.Run("SetUnknown", func(t *testing.T) {
		_, err := svc.Set(ctx, 77)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		state, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Purple Dreams", state.CurrentTheme.Name, "failed switch keeps the previous theme")
	})
}
