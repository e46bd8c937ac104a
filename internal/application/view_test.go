package application

import (
	"testing"
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/stretchr/testify/assert"
)

func samplePools() []domain.Pool {
	return DemoPools(time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))
}

func poolIDs(pools []domain.Pool) []string {
	ids := make([]string, 0, len(pools))
	for _, pool := range pools {
		ids = append(ids, pool.CreatorName)
	}
	return ids
}

func TestFilterByPlatformAllIsIdentity(t *testing.T) {
	t.Parallel()

	for _, input := range [][]domain.Pool{nil, {}, samplePools()} {
		assert.Equal(t, input, FilterByPlatform(input, domain.PlatformAll))
	}
}

func TestFilterByPlatformExactMatch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Priya"}, poolIDs(FilterByPlatform(samplePools(), domain.PlatformZepto)))
	assert.Empty(t, FilterByPlatform(samplePools(), domain.PlatformOther))
}

func TestFilterByQueryBlankIsIdentity(t *testing.T) {
	t.Parallel()

	for _, query := range []string{"", "   ", "\t"} {
		for _, input := range [][]domain.Pool{nil, {}, samplePools()} {
			assert.Equal(t, input, FilterByQuery(input, query))
		}
	}
}

func TestFilterByQueryMatchesCardText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  []string
	}{
		{query: "amit", want: []string{"Amit"}},
		{query: "ZEPTO", want: []string{"Priya"}},
		{query: "cold dr", want: []string{"Priya"}},
		{query: "i", want: []string{"Amit", "Rahul", "Priya"}},
		{query: "pizza", want: []string{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.query, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, poolIDs(FilterByQuery(samplePools(), tc.query)))
		})
	}
}

func TestFiltersComposeInEitherOrder(t *testing.T) {
	t.Parallel()

	pools := samplePools()
	for _, platform := range domain.FilterPlatforms {
		for _, query := range []string{"", "a", "milk", "priya", "tea"} {
			left := FilterByPlatform(FilterByQuery(pools, query), platform)
			right := FilterByQuery(FilterByPlatform(pools, platform), query)
			assert.Equal(t, poolIDs(left), poolIDs(right), "platform=%s query=%q", platform, query)
		}
	}

	assert.Equal(t, []string{"Rahul"}, poolIDs(Project(pools, ViewQuery{Search: "milk", Platform: domain.PlatformBlinkit})))
	assert.Empty(t, Project(pools, ViewQuery{Search: "milk", Platform: domain.PlatformZepto}))
}
