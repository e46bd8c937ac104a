package blob

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/poolify-cli/internal/adapters/kv/memory"
	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewSessionRepository(memory.NewStore())
	session := domain.Session{ID: "u-1", Email: "rahul@example.com", DisplayName: "Rahul", Hostel: "Hostel A"}

	require.NoError(t, repo.Save(context.Background(), session))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestSessionRepositoryMissingAndCorrupt(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	repo := NewSessionRepository(store)

	_, err := repo.Get(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNoSession))

	require.NoError(t, store.Put(context.Background(), KeySession, "{oops"))
	_, err = repo.Get(context.Background())
	assert.True(t, errors.Is(err, domain.ErrStorageCorrupt))

	require.NoError(t, store.Put(context.Background(), KeySession, `{"displayName":"ghost"}`))
	_, err = repo.Get(context.Background())
	assert.True(t, errors.Is(err, domain.ErrStorageCorrupt))
}

func TestSessionRepositoryReadsLegacyFields(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	require.NoError(t, store.Put(context.Background(), KeySession, `{"uid":"fb-1","email":"a@example.com","name":"Asha"}`))

	got, err := NewSessionRepository(store).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Session{ID: "fb-1", Email: "a@example.com", DisplayName: "Asha"}, got)
}

func TestSessionRepositoryPlainStringKeys(t *testing.T) {
	t.Parallel()

	repo := NewSessionRepository(memory.NewStore())
	ctx := context.Background()

	hostel, err := repo.HostelPreference(ctx)
	require.NoError(t, err)
	assert.Empty(t, hostel)

	require.NoError(t, repo.SetHostelPreference(ctx, " Hostel C "))
	require.NoError(t, repo.SetViewingPoolID(ctx, "p-9"))

	hostel, err = repo.HostelPreference(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hostel C", hostel)

	viewing, err := repo.ViewingPoolID(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PoolID("p-9"), viewing)

	require.NoError(t, repo.Clear(ctx))
	viewing, err = repo.ViewingPoolID(ctx)
	require.NoError(t, err)
	assert.Empty(t, viewing)
}

type corruptStore struct {
	*memory.Store
}

func (corruptStore) Get(context.Context, string) (string, error) {
	return "", fmt.Errorf("decode store file: %w", domain.ErrStorageCorrupt)
}

func TestSessionRepositoryPlainStringKeysSurviveCorruptStore(t *testing.T) {
	t.Parallel()

	repo := NewSessionRepository(corruptStore{Store: memory.NewStore()})
	ctx := context.Background()

	hostel, err := repo.HostelPreference(ctx)
	require.NoError(t, err)
	assert.Empty(t, hostel)

	viewing, err := repo.ViewingPoolID(ctx)
	require.NoError(t, err)
	assert.Empty(t, viewing)

	_, err = repo.Get(ctx)
	assert.True(t, errors.Is(err, domain.ErrStorageCorrupt))
}
