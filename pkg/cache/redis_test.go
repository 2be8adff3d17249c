package cache

import (
	"context"
	"testing"

	"golocal-spaces/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis_EmptyAddrIsNop(t *testing.T) {
	c, err := InitRedis(context.Background(), utils.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, NopEventCache{}, c)

	require.NoError(t, c.Remember(context.Background(), "evt_1"))
	seen, err := c.Seen(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
	assert.NoError(t, c.Close())
}
