package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCacheNeverHits(t *testing.T) {
	c := NewNoop()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(context.Background(), "k"))
}
