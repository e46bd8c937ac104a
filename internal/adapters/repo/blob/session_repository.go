package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/bnema/poolify-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

type SessionRepository struct {
	store ports.BlobStore
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(store ports.BlobStore) *SessionRepository {
	return &SessionRepository{store: store}
}

// Get returns domain.ErrNoSession when no session blob exists and
// domain.ErrStorageCorrupt when it cannot be decoded.
func (r *SessionRepository) Get(ctx context.Context) (domain.Session, error) {
	raw, err := r.store.Get(ctx, KeySession)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return domain.Session{}, domain.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("read session blob: %w", err)
	}

	var schema sessionSchema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		return domain.Session{}, fmt.Errorf("decode session blob: %w: %v", domain.ErrStorageCorrupt, err)
	}

	session := fromSessionSchema(schema)
	if session.IsZero() {
		return domain.Session{}, fmt.Errorf("session blob has no id or email: %w", domain.ErrStorageCorrupt)
	}

	return session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(toSessionSchema(session))
	if err != nil {
		return fmt.Errorf("encode session blob: %w", err)
	}

	if err := r.store.Put(ctx, KeySession, string(data)); err != nil {
		return fmt.Errorf("write session blob: %w", err)
	}

	return nil
}

func (r *SessionRepository) HostelPreference(ctx context.Context) (string, error) {
	return r.getString(ctx, KeyHostelPreference)
}

func (r *SessionRepository) SetHostelPreference(ctx context.Context, hostel string) error {
	return r.store.Put(ctx, KeyHostelPreference, strings.TrimSpace(hostel))
}

func (r *SessionRepository) ViewingPoolID(ctx context.Context) (domain.PoolID, error) {
	id, err := r.getString(ctx, KeyViewingPoolID)
	return domain.PoolID(id), err
}

func (r *SessionRepository) SetViewingPoolID(ctx context.Context, id domain.PoolID) error {
	return r.store.Put(ctx, KeyViewingPoolID, string(id))
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.store.Clear(ctx)
}

// getString treats a missing key, or a store that cannot be decoded, as the empty string.
func (r *SessionRepository) getString(ctx context.Context, key string) (string, error) {
	value, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return "", nil
		}
		if errors.Is(err, domain.ErrStorageCorrupt) {
			log.Warn().Err(err).Str("key", key).Msg("ignoring unreadable blob")
			return "", nil
		}
		return "", fmt.Errorf("read %s blob: %w", key, err)
	}

	return strings.TrimSpace(value), nil
}
