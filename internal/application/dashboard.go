package application

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/bnema/poolify-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

// Dashboard owns the resolved session and the loaded pools for one dashboard
// instance. It is not safe for concurrent use; the caller serializes access.
type Dashboard struct {
	sessions  *SessionService
	poolSvc   *PoolService
	viewing   ports.SessionRepository
	navigator ports.Navigator
	clock     ports.Clock

	state   BootstrapState
	session domain.Session
	pools   []domain.Pool
}

func NewDashboard(sessions *SessionService, pools *PoolService, viewing ports.SessionRepository, navigator ports.Navigator, clock ports.Clock) *Dashboard {
	if clock == nil {
		clock = ports.SystemClock()
	}

	return &Dashboard{
		sessions:  sessions,
		poolSvc:   pools,
		viewing:   viewing,
		navigator: navigator,
		clock:     clock,
		state:     StateUnresolved,
	}
}

// Open resolves the session and loads the pools. Without a session it navigates
// to login and returns domain.ErrNoSession.
func (d *Dashboard) Open(ctx context.Context) error {
	session, state, err := d.sessions.Resolve(ctx)
	if err != nil {
		return err
	}

	d.state = state
	if state != StateAuthenticated {
		if err := d.navigate(ctx, ports.Destination{Name: ports.DestinationLogin}); err != nil {
			return err
		}
		return domain.ErrNoSession
	}

	d.session = session
	pools, seeded, err := d.poolSvc.Bootstrap(ctx)
	if err != nil {
		return err
	}
	d.pools = pools

	log.Debug().Str("user", string(session.MemberID())).Int("pools", len(pools)).Bool("seeded", seeded).Msg("dashboard opened")
	return nil
}

func (d *Dashboard) State() BootstrapState {
	return d.state
}

func (d *Dashboard) Session() domain.Session {
	return d.session
}

// Pools returns a copy of the loaded pools, expired ones included.
func (d *Dashboard) Pools() []domain.Pool {
	out := make([]domain.Pool, 0, len(d.pools))
	for _, pool := range d.pools {
		out = append(out, pool.Clone())
	}
	return out
}

func (d *Dashboard) Render(query ViewQuery) RenderRequest {
	return NewRenderRequest(d.session, d.pools, query, d.clock.Now())
}

// Track points timers at the currently active pools.
func (d *Dashboard) Track(timers *Timers) {
	timers.Reset()
	for _, pool := range ActiveOnly(d.pools, d.clock.Now()) {
		timers.Subscribe(pool.ID, pool.ExpiresAt, nil)
	}
}

// Join adds the current user to a pool. Membership matches the session id or
// email, so a pool joined under either counts as joined.
func (d *Dashboard) Join(ctx context.Context, id domain.PoolID) (domain.Pool, error) {
	if d.state != StateAuthenticated {
		return domain.Pool{}, domain.ErrNoSession
	}

	if index := indexOf(d.pools, id); index >= 0 && d.session.JoinedPool(d.pools[index]) {
		return domain.Pool{}, &domain.JoinError{PoolID: id, Kind: domain.JoinAlreadyJoined}
	}

	return d.poolSvc.Join(ctx, d.pools, id, d.session.MemberID())
}

// View records the pool as the one being viewed and navigates to its detail page.
func (d *Dashboard) View(ctx context.Context, id domain.PoolID) error {
	if indexOf(d.pools, id) < 0 {
		return fmt.Errorf("view pool %s: %w", id, domain.ErrPoolNotFound)
	}
	if err := d.viewing.SetViewingPoolID(ctx, id); err != nil {
		return fmt.Errorf("save viewing pool: %w", err)
	}

	return d.navigate(ctx, ports.Destination{Name: ports.DestinationPoolDetail})
}

// QuickPool navigates to pool creation preset for platform.
func (d *Dashboard) QuickPool(ctx context.Context, platform domain.Platform) error {
	dest := ports.Destination{Name: ports.DestinationPoolCreation}
	if platform != "" && platform != domain.PlatformAll {
		dest.Query = url.Values{"platform": []string{string(platform)}}
	}
	return d.navigate(ctx, dest)
}

// Reload rereads the active pools without seeding and reports whether they changed.
func (d *Dashboard) Reload(ctx context.Context) (bool, error) {
	if d.state != StateAuthenticated {
		return false, domain.ErrNoSession
	}

	stored, err := d.poolSvc.Load(ctx)
	if err != nil {
		return false, err
	}

	active := d.poolSvc.ActiveOnly(stored)
	if samePools(active, ActiveOnly(d.pools, d.clock.Now())) {
		return false, nil
	}

	d.pools = active
	return true, nil
}

func (d *Dashboard) Logout(ctx context.Context) error {
	if err := d.sessions.Logout(ctx); err != nil {
		return err
	}

	d.state = StateNoSession
	d.session = domain.Session{}
	d.pools = nil
	return nil
}

func samePools(a, b []domain.Pool) bool {
	return slices.EqualFunc(a, b, func(x, y domain.Pool) bool {
		return x.ID == y.ID &&
			x.Platform == y.Platform &&
			x.CreatorID == y.CreatorID &&
			x.CreatorName == y.CreatorName &&
			x.MaxUsers == y.MaxUsers &&
			x.EstimatedSavings == y.EstimatedSavings &&
			x.ExpiresAt.Equal(y.ExpiresAt) &&
			slices.Equal(x.Items, y.Items) &&
			slices.Equal(x.JoinedUsers, y.JoinedUsers)
	})
}

func (d *Dashboard) navigate(ctx context.Context, dest ports.Destination) error {
	if d.navigator == nil {
		return nil
	}
	if err := d.navigator.Navigate(ctx, dest); err != nil {
		return fmt.Errorf("navigate to %s: %w", dest.Name, err)
	}
	return nil
}
