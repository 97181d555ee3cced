package doorconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/domain"
	"gatekeeper/pkg/sentinel"
)

func TestInMemoryGetMissingIsConfigFault(t *testing.T) {
	store := NewInMemory()

	_, err := store.Get(context.Background(), domain.GlobalConfigID)
	assert.ErrorIs(t, err, sentinel.ErrConfigMissing)
	assert.True(t, IsConfigFault(err))
}

func TestInMemoryPutGet(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	cfg := domain.DoorConfig{
		ID:       domain.GlobalConfigID,
		TimeZone: "Europe/Madrid",
		Schedule: domain.Schedule{"mon": {{From: "08:00", To: "18:00"}}},
	}
	require.NoError(t, store.Put(ctx, cfg))

	got, err := store.Get(ctx, domain.GlobalConfigID)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", got.TimeZone)
	assert.Len(t, got.Schedule["mon"], 1)
}
