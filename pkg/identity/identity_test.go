package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	id := &Identity{
		Username:  "mcmurray",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestGetWithoutIdentity(t *testing.T) {
	got, ok := Get(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
}
