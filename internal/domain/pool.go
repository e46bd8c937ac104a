package domain

import (
	"fmt"
	"strings"
	"time"
)

type PoolID string
type UserID string
type Platform string
type PoolStatus string

const (
	PlatformBlinkit   Platform = "blinkit"
	PlatformZepto     Platform = "zepto"
	PlatformInstamart Platform = "instamart"
	PlatformOther     Platform = "other"

	// PlatformAll is the filter value that matches every platform.
	PlatformAll Platform = "all"

	PoolStatusActive  PoolStatus = "active"
	PoolStatusExpired PoolStatus = "expired"
)

const (
	// JoinSavingsIncrement is added to a pool's estimated savings per join.
	JoinSavingsIncrement = 30.0
	DefaultMaxUsers      = 4
)

var FilterPlatforms = []Platform{PlatformAll, PlatformBlinkit, PlatformZepto, PlatformInstamart}

func (p Platform) Valid() bool {
	switch p {
	case PlatformBlinkit, PlatformZepto, PlatformInstamart, PlatformOther:
		return true
	default:
		return false
	}
}

func (p Platform) DisplayName() string {
	switch p {
	case PlatformBlinkit:
		return "Blinkit"
	case PlatformZepto:
		return "Zepto"
	case PlatformInstamart:
		return "Instamart"
	default:
		return string(p)
	}
}

// ParsePlatform maps free-form input to a platform; unknown names become PlatformOther.
func ParsePlatform(raw string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(raw)))
	if p == PlatformAll || p.Valid() {
		return p
	}
	return PlatformOther
}

type Pool struct {
	ID               PoolID
	Platform         Platform
	CreatorID        string
	CreatorName      string
	Items            []string
	JoinedUsers      []UserID
	MaxUsers         int
	EstimatedSavings float64
	ExpiresAt        time.Time
}

func (p Pool) Validate() error {
	if strings.TrimSpace(string(p.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if !p.Platform.Valid() {
		return fmt.Errorf("unsupported platform %q", p.Platform)
	}
	if p.MaxUsers <= 0 {
		return fmt.Errorf("max users must be positive, got %d", p.MaxUsers)
	}
	if p.EstimatedSavings < 0 {
		return fmt.Errorf("estimated savings must not be negative")
	}
	if p.ExpiresAt.IsZero() {
		return fmt.Errorf("expiry is required")
	}
	if len(p.JoinedUsers) > p.MaxUsers {
		return fmt.Errorf("pool has %d members but capacity %d", len(p.JoinedUsers), p.MaxUsers)
	}

	return nil
}

func (p *Pool) NormalizeMembers() {
	if p == nil {
		return
	}

	members := make([]UserID, 0, len(p.JoinedUsers))
	seen := make(map[UserID]struct{}, len(p.JoinedUsers))
	for _, member := range p.JoinedUsers {
		trimmed := UserID(strings.TrimSpace(string(member)))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		members = append(members, trimmed)
	}

	p.JoinedUsers = members
}

func (p Pool) HasMember(user UserID) bool {
	for _, member := range p.JoinedUsers {
		if member == user {
			return true
		}
	}
	return false
}

func (p Pool) IsFull() bool {
	return len(p.JoinedUsers) >= p.MaxUsers
}

func (p Pool) IsActive(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && p.ExpiresAt.After(now)
}

func (p Pool) Status(now time.Time) PoolStatus {
	if p.IsActive(now) {
		return PoolStatusActive
	}
	return PoolStatusExpired
}

// Clone returns a copy that shares no slices with p.
func (p Pool) Clone() Pool {
	clone := p
	clone.Items = append([]string(nil), p.Items...)
	clone.JoinedUsers = append([]UserID(nil), p.JoinedUsers...)
	return clone
}

// SearchText is the lower-cased text a card shows for the pool.
func (p Pool) SearchText() string {
	parts := make([]string, 0, len(p.Items)+2)
	parts = append(parts, p.CreatorName, p.Platform.DisplayName())
	parts = append(parts, p.Items...)
	return strings.ToLower(strings.Join(parts, " "))
}
