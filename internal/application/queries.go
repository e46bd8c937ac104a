package application

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
)

const (
	cardItemLimit     = 3
	unknownCreator    = "Someone"
	hoursSavedPerPool = 0.5
)

// Card is one visible pool with every field the presentation layer shows.
type Card struct {
	ID           domain.PoolID
	Platform     domain.Platform
	PlatformName string
	CreatorName  string
	Items        []string
	MoreItems    int
	Members      int
	MaxUsers     int
	Savings      float64
	ExpiresAt    time.Time
	Countdown    domain.Countdown
	Joined       bool
	Full         bool
}

func NewCard(pool domain.Pool, session domain.Session, now time.Time) Card {
	items := pool.Items
	more := 0
	if len(items) > cardItemLimit {
		more = len(items) - cardItemLimit
		items = items[:cardItemLimit]
	}

	creator := strings.TrimSpace(pool.CreatorName)
	if creator == "" {
		creator = unknownCreator
	}

	return Card{
		ID:           pool.ID,
		Platform:     pool.Platform,
		PlatformName: pool.Platform.DisplayName(),
		CreatorName:  creator,
		Items:        append([]string(nil), items...),
		MoreItems:    more,
		Members:      len(pool.JoinedUsers),
		MaxUsers:     pool.MaxUsers,
		Savings:      pool.EstimatedSavings,
		ExpiresAt:    pool.ExpiresAt,
		Countdown:    domain.NewCountdown(pool.ID, pool.ExpiresAt, now),
		Joined:       session.JoinedPool(pool),
		Full:         pool.IsFull(),
	}
}

// ItemTags returns the shown items plus a "+N more" tag when some were cut.
func (c Card) ItemTags() []string {
	tags := append([]string(nil), c.Items...)
	if c.MoreItems > 0 {
		tags = append(tags, fmt.Sprintf("+%d more", c.MoreItems))
	}
	return tags
}

func (c Card) MembersLabel() string {
	return fmt.Sprintf("%d/%d", c.Members, c.MaxUsers)
}

func (c Card) SavingsLabel() string {
	return "Save ₹" + formatAmount(c.Savings)
}

// WithCountdown returns the card with a fresher countdown for the same pool.
func (c Card) WithCountdown(countdown domain.Countdown) Card {
	if countdown.PoolID == c.ID {
		c.Countdown = countdown
	}
	return c
}

type Stats struct {
	ActivePools    int
	TotalSavings   float64
	TotalItems     int
	TimeSavedHours int
}

// NewStats summarizes the active pools, whatever filter is applied to the cards.
func NewStats(active []domain.Pool) Stats {
	stats := Stats{ActivePools: len(active)}
	for _, pool := range active {
		stats.TotalSavings += pool.EstimatedSavings
		stats.TotalItems += len(pool.Items)
	}
	stats.TimeSavedHours = int(math.Floor(float64(stats.ActivePools) * hoursSavedPerPool))
	return stats
}

func (s Stats) SavingsLabel() string {
	return "₹" + formatAmount(s.TotalSavings)
}

// RenderRequest is everything a presentation layer needs to draw the dashboard.
type RenderRequest struct {
	Session domain.Session
	Query   ViewQuery
	Cards   []Card
	Stats   Stats
	// EmptyMessage is set only when no card is visible.
	EmptyMessage string
	// QuickPlatform is the platform to offer a quick pool for on an empty filter.
	QuickPlatform domain.Platform
}

func NewRenderRequest(session domain.Session, pools []domain.Pool, query ViewQuery, now time.Time) RenderRequest {
	active := ActiveOnly(pools, now)
	visible := Project(active, query)

	cards := make([]Card, 0, len(visible))
	for _, pool := range visible {
		cards = append(cards, NewCard(pool, session, now))
	}

	req := RenderRequest{
		Session: session,
		Query:   query,
		Cards:   cards,
		Stats:   NewStats(active),
	}
	if len(cards) == 0 {
		req.EmptyMessage, req.QuickPlatform = emptyMessage(query)
	}
	return req
}

func emptyMessage(query ViewQuery) (string, domain.Platform) {
	if search := strings.TrimSpace(query.Search); search != "" {
		return fmt.Sprintf("No results for %q", search), ""
	}
	if query.Platform != "" && query.Platform != domain.PlatformAll {
		return fmt.Sprintf("No %s pools", query.Platform.DisplayName()), query.Platform
	}
	return "No active pools", ""
}

func formatAmount(amount float64) string {
	if amount == math.Trunc(amount) {
		return fmt.Sprintf("%.0f", amount)
	}
	return fmt.Sprintf("%.2f", amount)
}
