package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/bnema/poolify-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

type TimerFunc func(domain.Countdown)

type timerSubscription struct {
	seq       uint64
	expiresAt time.Time
	fn        TimerFunc
}

// Timers multiplexes every pool countdown onto one ticker. Each tick computes all
// subscribed countdowns in a single pass; a countdown that reaches zero is
// delivered once as expired and then unsubscribed.
type Timers struct {
	clock ports.Clock

	mu   sync.Mutex
	seq  uint64
	subs map[domain.PoolID]timerSubscription
}

func NewTimers(clock ports.Clock) *Timers {
	if clock == nil {
		clock = ports.SystemClock()
	}

	return &Timers{clock: clock, subs: map[domain.PoolID]timerSubscription{}}
}

// Subscribe replaces any existing subscription for id. fn may be nil when only
// the per-tick pass is of interest. The returned cancel is idempotent.
func (t *Timers) Subscribe(id domain.PoolID, expiresAt time.Time, fn TimerFunc) func() {
	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.subs[id] = timerSubscription{seq: seq, expiresAt: expiresAt, fn: fn}
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if current, ok := t.subs[id]; ok && current.seq == seq {
			delete(t.subs, id)
		}
	}
}

func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Reset drops every subscription.
func (t *Timers) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = map[domain.PoolID]timerSubscription{}
}

// Tick runs one pass at the clock's current time. Callbacks run outside the lock,
// in pool id order.
func (t *Timers) Tick() []domain.Countdown {
	now := t.clock.Now()

	t.mu.Lock()
	ids := make([]domain.PoolID, 0, len(t.subs))
	for id := range t.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pass := make([]domain.Countdown, 0, len(ids))
	fns := make([]TimerFunc, 0, len(ids))
	for _, id := range ids {
		sub := t.subs[id]
		countdown := domain.NewCountdown(id, sub.expiresAt, now)
		if countdown.Expired {
			delete(t.subs, id)
		}
		pass = append(pass, countdown)
		fns = append(fns, sub.fn)
	}
	t.mu.Unlock()

	for i, fn := range fns {
		if fn != nil {
			fn(pass[i])
		}
	}

	return pass
}

// Run ticks immediately and then every interval until ctx is done. onPass, when
// set, receives each full pass after the per-subscription callbacks ran.
func (t *Timers) Run(ctx context.Context, interval time.Duration, onPass func([]domain.Countdown)) error {
	if interval <= 0 {
		return fmt.Errorf("timer interval must be positive, got %s", interval)
	}

	ticker := t.clock.NewTicker(interval)
	defer ticker.Stop()

	log.Debug().Dur("interval", interval).Msg("countdown timers started")

	emit := func() {
		pass := t.Tick()
		if onPass != nil {
			onPass(pass)
		}
	}

	emit()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			emit()
		}
	}
}
