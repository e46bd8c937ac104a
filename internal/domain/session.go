package domain

import "strings"

const (
	DefaultHostel      = "Hostel B"
	defaultDisplayName = "User"
)

type Session struct {
	ID          string
	Email       string
	DisplayName string
	Hostel      string
}

func (s Session) IsZero() bool {
	return strings.TrimSpace(s.ID) == "" && strings.TrimSpace(s.Email) == ""
}

// MemberID is the id recorded in a pool when this user joins.
func (s Session) MemberID() UserID {
	if id := strings.TrimSpace(s.ID); id != "" {
		return UserID(id)
	}
	return UserID(strings.TrimSpace(s.Email))
}

// Owns reports whether a pool lists this user under either the id or the email.
func (s Session) Owns(member UserID) bool {
	if member == "" {
		return false
	}
	return (s.ID != "" && string(member) == s.ID) || (s.Email != "" && string(member) == s.Email)
}

func (s Session) JoinedPool(pool Pool) bool {
	for _, member := range pool.JoinedUsers {
		if s.Owns(member) {
			return true
		}
	}
	return false
}

// Identity is the user shape delivered by an external identity provider.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}

func DisplayNameFor(displayName, email string) string {
	if trimmed := strings.TrimSpace(displayName); trimmed != "" {
		return trimmed
	}
	if local, _, _ := strings.Cut(strings.TrimSpace(email), "@"); local != "" {
		return local
	}
	return defaultDisplayName
}

func (s Session) Initial() string {
	name := DisplayNameFor(s.DisplayName, s.Email)
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "U"
}
