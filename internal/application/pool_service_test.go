package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func TestPoolServiceBootstrapSeedsDemoPoolsWhenNoneActive(t *testing.T) {
	t.Parallel()

	repo := &inMemoryPoolRepo{pools: []domain.Pool{
		{ID: "old", Platform: domain.PlatformZepto, MaxUsers: 2, ExpiresAt: t0.Add(-time.Hour)},
	}}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	pools, seeded, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)
	require.Len(t, pools, 3)
	assert.Equal(t, []domain.Platform{domain.PlatformInstamart, domain.PlatformBlinkit, domain.PlatformZepto},
		[]domain.Platform{pools[0].Platform, pools[1].Platform, pools[2].Platform})
	assert.Len(t, repo.pools, 3, "seed replaces the stored collection")
}

func TestPoolServiceBootstrapKeepsActivePools(t *testing.T) {
	t.Parallel()

	repo := &inMemoryPoolRepo{pools: []domain.Pool{
		{ID: "live", Platform: domain.PlatformZepto, MaxUsers: 2, ExpiresAt: t0.Add(time.Minute)},
		{ID: "old", Platform: domain.PlatformZepto, MaxUsers: 2, ExpiresAt: t0},
	}}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	pools, seeded, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)
	require.Len(t, pools, 1)
	assert.Equal(t, domain.PoolID("live"), pools[0].ID)
	assert.Zero(t, repo.persists)
}

func TestPoolServiceBootstrapRecoversFromCorruptStorage(t *testing.T) {
	t.Parallel()

	repo := &inMemoryPoolRepo{loadErr: fmt.Errorf("decode pools blob: %w", domain.ErrStorageCorrupt)}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	pools, seeded, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Len(t, pools, 3)
}

func TestPoolServiceLoadPropagatesStoreFailures(t *testing.T) {
	t.Parallel()

	repo := &inMemoryPoolRepo{loadErr: errors.New("disk unplugged")}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	_, err := svc.Load(context.Background())
	assert.ErrorContains(t, err, "load pools: disk unplugged")
}

func TestActiveOnlyAfterNineMinutesDropsTheEightMinutePool(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(t0)
	svc := NewPoolService(&inMemoryPoolRepo{}, clock)

	seeded, err := svc.SeedDemo(context.Background())
	require.NoError(t, err)

	clock.Advance(9 * time.Minute)
	active := svc.ActiveOnly(seeded)

	require.Len(t, active, 2)
	assert.Equal(t, "Amit", active[0].CreatorName)
	assert.Equal(t, "Rahul", active[1].CreatorName)
}

func TestActiveOnlyExcludesExactlyExpiredPools(t *testing.T) {
	t.Parallel()

	pools := []domain.Pool{
		{ID: "a", ExpiresAt: t0.Add(-time.Second)},
		{ID: "b", ExpiresAt: t0},
		{ID: "c", ExpiresAt: t0.Add(time.Nanosecond)},
		{ID: "d"},
		{ID: "e", ExpiresAt: t0.Add(time.Hour)},
	}

	for offset := -2 * time.Hour; offset <= 2*time.Hour; offset += 30 * time.Minute {
		now := t0.Add(offset)
		active := ActiveOnly(pools, now)
		for _, pool := range pools {
			want := !pool.ExpiresAt.IsZero() && pool.ExpiresAt.After(now)
			assert.Equal(t, want, containsPool(active, pool.ID), "pool %s at %s", pool.ID, now)
		}
	}
}

func TestPoolServiceJoin(t *testing.T) {
	t.Parallel()

	base := domain.Pool{
		ID:               "p1",
		Platform:         domain.PlatformBlinkit,
		CreatorID:        "u0",
		MaxUsers:         3,
		JoinedUsers:      []domain.UserID{"u0", "u1"},
		EstimatedSavings: 120,
		ExpiresAt:        t0.Add(10 * time.Minute),
	}

	tests := []struct {
		name     string
		pool     domain.Pool
		poolID   domain.PoolID
		user     domain.UserID
		wantKind domain.JoinErrorKind
		sentinel error
	}{
		{name: "not found", pool: base, poolID: "missing", user: "u2", wantKind: domain.JoinNotFound, sentinel: domain.ErrPoolNotFound},
		{name: "already joined", pool: base, poolID: "p1", user: "u1", wantKind: domain.JoinAlreadyJoined, sentinel: domain.ErrAlreadyJoined},
		{name: "full", pool: withMaxUsers(base, 2), poolID: "p1", user: "u2", wantKind: domain.JoinFull, sentinel: domain.ErrPoolFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pools := []domain.Pool{tt.pool.Clone()}
			repo := &inMemoryPoolRepo{pools: []domain.Pool{tt.pool.Clone()}}
			svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

			_, err := svc.Join(context.Background(), pools, tt.poolID, tt.user)
			require.Error(t, err)

			var joinErr *domain.JoinError
			require.ErrorAs(t, err, &joinErr)
			assert.Equal(t, tt.wantKind, joinErr.Kind)
			assert.ErrorIs(t, err, tt.sentinel)

			assert.Equal(t, []domain.Pool{tt.pool}, pools, "in-memory state unchanged")
			assert.Zero(t, repo.persists, "nothing persisted")
		})
	}
}

func TestPoolServiceJoinAddsMemberAndSavings(t *testing.T) {
	t.Parallel()

	pool := domain.Pool{
		ID:               "p1",
		Platform:         domain.PlatformBlinkit,
		MaxUsers:         3,
		JoinedUsers:      []domain.UserID{"u0", "u1"},
		EstimatedSavings: 120,
		ExpiresAt:        t0.Add(10 * time.Minute),
	}
	pools := []domain.Pool{pool.Clone()}
	repo := &inMemoryPoolRepo{pools: []domain.Pool{pool.Clone()}}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	updated, err := svc.Join(context.Background(), pools, "p1", "u2")
	require.NoError(t, err)

	assert.Equal(t, []domain.UserID{"u0", "u1", "u2"}, updated.JoinedUsers)
	assert.InDelta(t, 150.0, updated.EstimatedSavings, 1e-9)
	assert.Equal(t, updated, pools[0])
	assert.Equal(t, 1, repo.persists)
	assert.Equal(t, []domain.Pool{updated}, repo.pools)

	_, err = svc.Join(context.Background(), pools, "p1", "u2")
	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
	assert.Len(t, pools[0].JoinedUsers, 3)
}

func TestPoolServiceJoinTwiceFailsSecondTime(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(t0)
	svc := NewPoolService(&inMemoryPoolRepo{}, clock)
	pools, err := svc.SeedDemo(context.Background())
	require.NoError(t, err)

	rahul := pools[1].ID
	_, err = svc.Join(context.Background(), pools, rahul, "me@example.com")
	require.NoError(t, err)

	before := pools[1].Clone()
	_, err = svc.Join(context.Background(), pools, rahul, "me@example.com")
	require.ErrorIs(t, err, domain.ErrAlreadyJoined)
	assert.Equal(t, before, pools[1])
}

func TestPoolServiceJoinKeepsRecordsTheCallerDoesNotHold(t *testing.T) {
	t.Parallel()

	expired := domain.Pool{ID: "old", Platform: domain.PlatformZepto, MaxUsers: 2, ExpiresAt: t0.Add(-time.Hour)}
	live := domain.Pool{ID: "live", Platform: domain.PlatformZepto, MaxUsers: 2, ExpiresAt: t0.Add(time.Hour)}
	repo := &inMemoryPoolRepo{pools: []domain.Pool{expired, live}}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	_, err := svc.Join(context.Background(), []domain.Pool{live.Clone()}, "live", "u1")
	require.NoError(t, err)

	require.Len(t, repo.pools, 2)
	assert.Equal(t, domain.PoolID("old"), repo.pools[0].ID)
	assert.Equal(t, []domain.UserID{"u1"}, repo.pools[1].JoinedUsers)
}

func TestPoolServiceJoinWithoutUser(t *testing.T) {
	t.Parallel()

	svc := NewPoolService(&inMemoryPoolRepo{}, clockwork.NewFakeClockAt(t0))
	_, err := svc.Join(context.Background(), nil, "p1", "  ")
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestPoolServiceCreate(t *testing.T) {
	t.Parallel()

	repo := &inMemoryPoolRepo{}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	pool, err := svc.Create(context.Background(), CreatePoolCommand{
		Creator:          domain.Session{ID: "u1", Email: "neha@example.com"},
		Platform:         domain.PlatformZepto,
		Items:            []string{" Milk ", "", "Bread"},
		EstimatedSavings: 60,
		Duration:         20 * time.Minute,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pool.ID)
	assert.Equal(t, "neha", pool.CreatorName)
	assert.Equal(t, []string{"Milk", "Bread"}, pool.Items)
	assert.Equal(t, []domain.UserID{"u1"}, pool.JoinedUsers)
	assert.Equal(t, domain.DefaultMaxUsers, pool.MaxUsers)
	assert.Equal(t, t0.Add(20*time.Minute), pool.ExpiresAt)
	assert.Equal(t, []domain.Pool{pool}, repo.pools)
}

func TestPoolServiceCreateRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := NewPoolService(&inMemoryPoolRepo{}, clockwork.NewFakeClockAt(t0))

	_, err := svc.Create(context.Background(), CreatePoolCommand{Creator: domain.Session{ID: "u1"}, Platform: domain.PlatformZepto})
	assert.ErrorIs(t, err, domain.ErrInvalidPool)

	_, err = svc.Create(context.Background(), CreatePoolCommand{Platform: domain.PlatformZepto, Duration: time.Minute})
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = svc.Create(context.Background(), CreatePoolCommand{Creator: domain.Session{ID: "u1"}, Platform: domain.PlatformZepto, MaxUsers: -1, Duration: time.Minute})
	assert.ErrorIs(t, err, domain.ErrInvalidPool)
}

func TestPoolServicePrune(t *testing.T) {
	t.Parallel()

	repo := &inMemoryPoolRepo{pools: []domain.Pool{
		{ID: "old", Platform: domain.PlatformZepto, MaxUsers: 2, ExpiresAt: t0.Add(-time.Hour)},
		{ID: "live", Platform: domain.PlatformZepto, MaxUsers: 2, ExpiresAt: t0.Add(time.Hour)},
	}}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	removed, err := svc.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	require.Len(t, repo.pools, 1)
	assert.Equal(t, domain.PoolID("live"), repo.pools[0].ID)

	removed, err = svc.Prune(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, 1, repo.persists)
}

func TestPoolServiceFind(t *testing.T) {
	t.Parallel()

	repo := &inMemoryPoolRepo{pools: []domain.Pool{{ID: "p1", Platform: domain.PlatformZepto, MaxUsers: 2}}}
	svc := NewPoolService(repo, clockwork.NewFakeClockAt(t0))

	pool, err := svc.Find(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PoolID("p1"), pool.ID)

	_, err = svc.Find(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func withMaxUsers(pool domain.Pool, max int) domain.Pool {
	clone := pool.Clone()
	clone.MaxUsers = max
	return clone
}

func containsPool(pools []domain.Pool, id domain.PoolID) bool {
	return indexOf(pools, id) >= 0
}

type inMemoryPoolRepo struct {
	pools    []domain.Pool
	loadErr  error
	persists int
}

func (r *inMemoryPoolRepo) Load(_ context.Context) ([]domain.Pool, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}

	out := make([]domain.Pool, 0, len(r.pools))
	for _, pool := range r.pools {
		out = append(out, pool.Clone())
	}
	return out, nil
}

func (r *inMemoryPoolRepo) Persist(_ context.Context, pools []domain.Pool) error {
	r.loadErr = nil
	r.persists++
	r.pools = make([]domain.Pool, 0, len(pools))
	for _, pool := range pools {
		r.pools = append(r.pools, pool.Clone())
	}
	return nil
}
