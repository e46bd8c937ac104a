package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/bnema/poolify-cli/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type PoolService struct {
	pools ports.PoolRepository
	clock ports.Clock
}

func NewPoolService(pools ports.PoolRepository, clock ports.Clock) *PoolService {
	if clock == nil {
		clock = ports.SystemClock()
	}

	return &PoolService{pools: pools, clock: clock}
}

// Load returns the stored pools. A corrupt blob is logged and yields an empty
// collection so the caller can fall back to demo data.
func (s *PoolService) Load(ctx context.Context) ([]domain.Pool, error) {
	pools, err := s.pools.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStorageCorrupt) {
			log.Warn().Err(err).Msg("discarding unreadable pools")
			return []domain.Pool{}, nil
		}
		return nil, fmt.Errorf("load pools: %w", err)
	}

	return pools, nil
}

// ActiveOnly keeps the pools whose expiry is strictly after now.
func ActiveOnly(pools []domain.Pool, now time.Time) []domain.Pool {
	active := make([]domain.Pool, 0, len(pools))
	for _, pool := range pools {
		if pool.IsActive(now) {
			active = append(active, pool)
		}
	}
	return active
}

func (s *PoolService) ActiveOnly(pools []domain.Pool) []domain.Pool {
	return ActiveOnly(pools, s.clock.Now())
}

// Bootstrap loads the active pools, seeding demo pools when none are active.
func (s *PoolService) Bootstrap(ctx context.Context) ([]domain.Pool, bool, error) {
	stored, err := s.Load(ctx)
	if err != nil {
		return nil, false, err
	}

	active := s.ActiveOnly(stored)
	if len(active) > 0 {
		log.Debug().Int("active", len(active)).Int("stored", len(stored)).Msg("loaded active pools")
		return active, false, nil
	}

	log.Info().Msg("no active pools, seeding demo pools")
	seeded, err := s.SeedDemo(ctx)
	if err != nil {
		return nil, false, err
	}

	return seeded, true, nil
}

func (s *PoolService) SeedDemo(ctx context.Context) ([]domain.Pool, error) {
	pools := DemoPools(s.clock.Now())
	if err := s.Persist(ctx, pools); err != nil {
		return nil, err
	}

	return pools, nil
}

func (s *PoolService) Persist(ctx context.Context, pools []domain.Pool) error {
	if err := s.pools.Persist(ctx, pools); err != nil {
		return fmt.Errorf("persist pools: %w", err)
	}
	return nil
}

// Join adds user to the pool with id in pools. On success the record is updated in
// place and the stored collection is rewritten with it. Any failure leaves pools
// untouched.
func (s *PoolService) Join(ctx context.Context, pools []domain.Pool, id domain.PoolID, user domain.UserID) (domain.Pool, error) {
	user = domain.UserID(strings.TrimSpace(string(user)))
	if user == "" {
		return domain.Pool{}, domain.ErrNoSession
	}

	index := indexOf(pools, id)
	if index < 0 {
		return domain.Pool{}, &domain.JoinError{PoolID: id, Kind: domain.JoinNotFound}
	}

	current := pools[index]
	if current.HasMember(user) {
		return domain.Pool{}, &domain.JoinError{PoolID: id, Kind: domain.JoinAlreadyJoined}
	}
	if current.IsFull() {
		return domain.Pool{}, &domain.JoinError{PoolID: id, Kind: domain.JoinFull}
	}

	updated := current.Clone()
	updated.JoinedUsers = append(updated.JoinedUsers, user)
	updated.EstimatedSavings += domain.JoinSavingsIncrement

	if err := s.writeThrough(ctx, updated); err != nil {
		return domain.Pool{}, err
	}

	pools[index] = updated
	log.Info().Str("pool_id", string(id)).Str("user", string(user)).Int("members", len(updated.JoinedUsers)).Msg("joined pool")

	return updated.Clone(), nil
}

func (s *PoolService) Create(ctx context.Context, cmd CreatePoolCommand) (domain.Pool, error) {
	if cmd.Duration <= 0 {
		return domain.Pool{}, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidPool)
	}
	creator := cmd.Creator.MemberID()
	if creator == "" {
		return domain.Pool{}, domain.ErrNoSession
	}

	maxUsers := cmd.MaxUsers
	if maxUsers == 0 {
		maxUsers = domain.DefaultMaxUsers
	}

	items := make([]string, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}

	pool := domain.Pool{
		ID:               domain.PoolID(uuid.NewString()),
		Platform:         cmd.Platform,
		CreatorID:        string(creator),
		CreatorName:      domain.DisplayNameFor(cmd.Creator.DisplayName, cmd.Creator.Email),
		Items:            items,
		JoinedUsers:      []domain.UserID{creator},
		MaxUsers:         maxUsers,
		EstimatedSavings: cmd.EstimatedSavings,
		ExpiresAt:        s.clock.Now().Add(cmd.Duration),
	}
	if err := pool.Validate(); err != nil {
		return domain.Pool{}, fmt.Errorf("%w: %v", domain.ErrInvalidPool, err)
	}

	if err := s.writeThrough(ctx, pool); err != nil {
		return domain.Pool{}, err
	}

	return pool, nil
}

// Prune drops expired pools from storage and returns how many were removed.
func (s *PoolService) Prune(ctx context.Context) (int, error) {
	stored, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}

	active := s.ActiveOnly(stored)
	removed := len(stored) - len(active)
	if removed == 0 {
		return 0, nil
	}

	if err := s.Persist(ctx, active); err != nil {
		return 0, err
	}

	return removed, nil
}

func (s *PoolService) Find(ctx context.Context, id domain.PoolID) (domain.Pool, error) {
	stored, err := s.Load(ctx)
	if err != nil {
		return domain.Pool{}, err
	}

	index := indexOf(stored, id)
	if index < 0 {
		return domain.Pool{}, domain.ErrPoolNotFound
	}

	return stored[index], nil
}

// writeThrough re-reads the stored collection and replaces or appends pool before
// persisting, so records the caller does not hold (such as expired ones) survive.
func (s *PoolService) writeThrough(ctx context.Context, pool domain.Pool) error {
	stored, err := s.Load(ctx)
	if err != nil {
		return err
	}

	if index := indexOf(stored, pool.ID); index >= 0 {
		stored[index] = pool
	} else {
		stored = append(stored, pool)
	}

	return s.Persist(ctx, stored)
}

func indexOf(pools []domain.Pool, id domain.PoolID) int {
	for i := range pools {
		if pools[i].ID == id {
			return i
		}
	}
	return -1
}
