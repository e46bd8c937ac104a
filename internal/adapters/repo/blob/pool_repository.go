package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/bnema/poolify-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

var (
	errMissingID    = errors.New("pool id is missing")
	errOverCapacity = errors.New("pool has more members than capacity")
)

type PoolRepository struct {
	store ports.BlobStore
	clock ports.Clock
}

var _ ports.PoolRepository = (*PoolRepository)(nil)

func NewPoolRepository(store ports.BlobStore, clock ports.Clock) *PoolRepository {
	if clock == nil {
		clock = ports.SystemClock()
	}

	return &PoolRepository{store: store, clock: clock}
}

// Load skips individual records that fail validation. A blob that is not a JSON
// array at all is reported as domain.ErrStorageCorrupt.
func (r *PoolRepository) Load(ctx context.Context) ([]domain.Pool, error) {
	raw, err := r.store.Get(ctx, KeyPools)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return []domain.Pool{}, nil
		}
		return nil, fmt.Errorf("read pools blob: %w", err)
	}

	entries, err := decodePools(raw)
	if err != nil {
		return nil, fmt.Errorf("decode pools blob: %w: %v", domain.ErrStorageCorrupt, err)
	}

	pools := make([]domain.Pool, 0, len(entries))
	seen := make(map[domain.PoolID]struct{}, len(entries))
	for i, entry := range entries {
		var schema poolSchema
		if err := json.Unmarshal(entry, &schema); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping undecodable pool record")
			continue
		}

		pool, err := fromPoolSchema(schema)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Str("pool_id", schema.ID).Msg("skipping invalid pool record")
			continue
		}
		if _, dup := seen[pool.ID]; dup {
			log.Warn().Str("pool_id", string(pool.ID)).Msg("skipping duplicate pool record")
			continue
		}
		seen[pool.ID] = struct{}{}

		pools = append(pools, pool)
	}

	return pools, nil
}

func (r *PoolRepository) Persist(ctx context.Context, pools []domain.Pool) error {
	now := r.clock.Now()

	encoded := make([]poolSchema, 0, len(pools))
	for _, pool := range pools {
		encoded = append(encoded, toPoolSchema(pool, now))
	}

	data, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("encode pools blob: %w", err)
	}

	if err := r.store.Put(ctx, KeyPools, string(data)); err != nil {
		return fmt.Errorf("write pools blob: %w", err)
	}

	return nil
}
