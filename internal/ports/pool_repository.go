package ports

import (
	"context"

	"github.com/bnema/poolify-cli/internal/domain"
)

type PoolRepository interface {
	// Load returns domain.ErrStorageCorrupt when the stored blob cannot be parsed.
	Load(ctx context.Context) ([]domain.Pool, error)
	// Persist replaces the stored collection in full.
	Persist(ctx context.Context, pools []domain.Pool) error
}

type SessionRepository interface {
	Get(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	HostelPreference(ctx context.Context) (string, error)
	SetHostelPreference(ctx context.Context, hostel string) error
	ViewingPoolID(ctx context.Context) (domain.PoolID, error)
	SetViewingPoolID(ctx context.Context, id domain.PoolID) error
	Clear(ctx context.Context) error
}
