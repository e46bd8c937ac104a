package application

import (
	"strings"

	"github.com/bnema/poolify-cli/internal/domain"
)

// FilterByPlatform returns pools unchanged for domain.PlatformAll (or no platform).
func FilterByPlatform(pools []domain.Pool, platform domain.Platform) []domain.Pool {
	if platform == domain.PlatformAll || platform == "" {
		return pools
	}

	filtered := make([]domain.Pool, 0, len(pools))
	for _, pool := range pools {
		if pool.Platform == platform {
			filtered = append(filtered, pool)
		}
	}
	return filtered
}

// FilterByQuery matches query case-insensitively against each pool's card text.
// A blank query returns pools unchanged.
func FilterByQuery(pools []domain.Pool, query string) []domain.Pool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return pools
	}

	filtered := make([]domain.Pool, 0, len(pools))
	for _, pool := range pools {
		if strings.Contains(pool.SearchText(), needle) {
			filtered = append(filtered, pool)
		}
	}
	return filtered
}

type ViewQuery struct {
	Search   string
	Platform domain.Platform
}

func (q ViewQuery) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && (q.Platform == "" || q.Platform == domain.PlatformAll)
}

func Project(pools []domain.Pool, query ViewQuery) []domain.Pool {
	return FilterByPlatform(FilterByQuery(pools, query.Search), query.Platform)
}
