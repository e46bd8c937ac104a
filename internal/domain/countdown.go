package domain

import (
	"fmt"
	"time"
)

// UrgentThreshold marks a countdown as urgent when fewer whole minutes remain.
const UrgentThreshold = 5 * time.Minute

type Countdown struct {
	PoolID    PoolID
	Remaining time.Duration
	Minutes   int
	Seconds   int
	Urgent    bool
	Expired   bool
}

// Remaining never returns a negative duration.
func Remaining(expiresAt, now time.Time) time.Duration {
	if expiresAt.IsZero() || !expiresAt.After(now) {
		return 0
	}
	return expiresAt.Sub(now)
}

func NewCountdown(id PoolID, expiresAt, now time.Time) Countdown {
	remaining := Remaining(expiresAt, now)
	if remaining == 0 {
		return Countdown{PoolID: id, Expired: true}
	}

	minutes := int(remaining / time.Minute)
	seconds := int((remaining % time.Minute) / time.Second)

	return Countdown{
		PoolID:    id,
		Remaining: remaining,
		Minutes:   minutes,
		Seconds:   seconds,
		Urgent:    remaining < UrgentThreshold,
	}
}

func (c Countdown) Clock() string {
	return fmt.Sprintf("%d:%02d", c.Minutes, c.Seconds)
}

func (c Countdown) Label() string {
	if c.Expired {
		return "Expired"
	}
	return c.Clock() + " min"
}
