package application

import (
	"testing"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoPoolsAreValidAndStaggered(t *testing.T) {
	t.Parallel()

	pools := DemoPools(t0)
	require.Len(t, pools, 3)

	seen := map[domain.Platform]bool{}
	for _, pool := range pools {
		require.NoError(t, pool.Validate())
		seen[pool.Platform] = true
	}
	assert.Len(t, seen, 3)

	assert.Equal(t, int64(25), int64(pools[0].ExpiresAt.Sub(t0).Minutes()))
	assert.Equal(t, int64(15), int64(pools[1].ExpiresAt.Sub(t0).Minutes()))
	assert.Equal(t, int64(8), int64(pools[2].ExpiresAt.Sub(t0).Minutes()))
	assert.NotEqual(t, pools[0].ID, pools[1].ID)
}

func TestRandomPoolsAreValid(t *testing.T) {
	t.Parallel()

	pools := RandomPools(faker.New(), t0, 20)
	require.Len(t, pools, 20)

	ids := map[domain.PoolID]bool{}
	for _, pool := range pools {
		require.NoError(t, pool.Validate())
		assert.True(t, pool.IsActive(t0))
		assert.Len(t, pool.JoinedUsers, 1)
		ids[pool.ID] = true
	}
	assert.Len(t, ids, 20)
}
