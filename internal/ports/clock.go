package ports

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is satisfied by clockwork.Clock. Tests use clockwork.NewFakeClockAt.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

func SystemClock() Clock {
	return clockwork.NewRealClock()
}
