package blob

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
)

// poolSchema is the persisted shape of one pool. The legacy fields are written by
// older dashboards and only read.
type poolSchema struct {
	ID               string   `json:"id"`
	Platform         string   `json:"platform"`
	CreatorID        string   `json:"creatorId,omitempty"`
	CreatorName      string   `json:"creatorName"`
	Items            []string `json:"items"`
	JoinedUsers      []string `json:"joinedUsers"`
	MaxUsers         int      `json:"maxUsers"`
	EstimatedSavings *float64 `json:"estimatedSavings,omitempty"`
	ExpiresAt        string   `json:"expiresAt"`
	Status           string   `json:"status,omitempty"`

	LegacyCreator       string   `json:"creator,omitempty"`
	LegacyEstimatedSave *float64 `json:"estimatedSave,omitempty"`
}

func toPoolSchema(pool domain.Pool, now time.Time) poolSchema {
	members := make([]string, 0, len(pool.JoinedUsers))
	for _, member := range pool.JoinedUsers {
		members = append(members, string(member))
	}

	items := pool.Items
	if items == nil {
		items = []string{}
	}
	savings := pool.EstimatedSavings

	return poolSchema{
		ID:               string(pool.ID),
		Platform:         string(pool.Platform),
		CreatorID:        pool.CreatorID,
		CreatorName:      pool.CreatorName,
		Items:            items,
		JoinedUsers:      members,
		MaxUsers:         pool.MaxUsers,
		EstimatedSavings: &savings,
		ExpiresAt:        formatTime(pool.ExpiresAt),
		Status:           string(pool.Status(now)),
	}
}

// fromPoolSchema normalizes optional fields and validates the record. An
// unparseable expiry is kept as the zero time so the pool is never active.
func fromPoolSchema(schema poolSchema) (domain.Pool, error) {
	creatorID := schema.CreatorID
	if creatorID == "" {
		creatorID = schema.LegacyCreator
	}

	var savings float64
	switch {
	case schema.EstimatedSavings != nil:
		savings = *schema.EstimatedSavings
	case schema.LegacyEstimatedSave != nil:
		savings = *schema.LegacyEstimatedSave
	}
	if savings < 0 || math.IsNaN(savings) {
		savings = 0
	}

	maxUsers := schema.MaxUsers
	if maxUsers <= 0 {
		maxUsers = domain.DefaultMaxUsers
	}

	items := make([]string, 0, len(schema.Items))
	for _, item := range schema.Items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}

	members := make([]domain.UserID, 0, len(schema.JoinedUsers))
	for _, member := range schema.JoinedUsers {
		members = append(members, domain.UserID(member))
	}

	pool := domain.Pool{
		ID:               domain.PoolID(strings.TrimSpace(schema.ID)),
		Platform:         domain.ParsePlatform(schema.Platform),
		CreatorID:        creatorID,
		CreatorName:      strings.TrimSpace(schema.CreatorName),
		Items:            items,
		JoinedUsers:      members,
		MaxUsers:         maxUsers,
		EstimatedSavings: savings,
		ExpiresAt:        parseTime(schema.ExpiresAt),
	}
	if pool.Platform == domain.PlatformAll {
		pool.Platform = domain.PlatformOther
	}
	pool.NormalizeMembers()

	if strings.TrimSpace(string(pool.ID)) == "" {
		return domain.Pool{}, errMissingID
	}
	if len(pool.JoinedUsers) > pool.MaxUsers {
		return domain.Pool{}, errOverCapacity
	}

	return pool, nil
}

func decodePools(raw string) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
