package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/bnema/poolify-cli/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type BootstrapState string

const (
	StateUnresolved    BootstrapState = "unresolved"
	StateAuthenticated BootstrapState = "authenticated"
	StateNoSession     BootstrapState = "no_session"
)

type SessionService struct {
	sessions      ports.SessionRepository
	identity      ports.IdentityProvider
	navigator     ports.Navigator
	defaultHostel string
}

// NewSessionService accepts a nil identity provider when none is configured.
func NewSessionService(sessions ports.SessionRepository, identity ports.IdentityProvider, navigator ports.Navigator, defaultHostel string) *SessionService {
	if strings.TrimSpace(defaultHostel) == "" {
		defaultHostel = domain.DefaultHostel
	}

	return &SessionService{
		sessions:      sessions,
		identity:      identity,
		navigator:     navigator,
		defaultHostel: strings.TrimSpace(defaultHostel),
	}
}

// Resolve asks the identity provider first and falls back to the stored session.
// An unreadable stored session counts as no session.
func (s *SessionService) Resolve(ctx context.Context) (domain.Session, BootstrapState, error) {
	if s.identity != nil {
		var current *domain.Identity
		if err := s.identity.OnAuthChange(ctx, func(identity *domain.Identity) {
			current = identity
		}); err != nil {
			return domain.Session{}, StateUnresolved, fmt.Errorf("resolve identity: %w", err)
		}

		if current != nil && (current.ID != "" || current.Email != "") {
			session, err := s.fromIdentity(ctx, *current)
			if err != nil {
				return domain.Session{}, StateUnresolved, err
			}
			return session, StateAuthenticated, nil
		}
	}

	stored, err := s.sessions.Get(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoSession):
		return domain.Session{}, StateNoSession, nil
	case errors.Is(err, domain.ErrStorageCorrupt):
		log.Warn().Err(err).Msg("discarding unreadable session")
		return domain.Session{}, StateNoSession, nil
	default:
		return domain.Session{}, StateUnresolved, fmt.Errorf("read session: %w", err)
	}

	session, err := s.EnsurePersisted(ctx, stored)
	if err != nil {
		return domain.Session{}, StateUnresolved, err
	}

	return session, StateAuthenticated, nil
}

// EnsurePersisted backfills a missing hostel and saves the session. A session that
// already carries a hostel is not rewritten; its hostel seeds an empty preference.
func (s *SessionService) EnsurePersisted(ctx context.Context, session domain.Session) (domain.Session, error) {
	if hostel := strings.TrimSpace(session.Hostel); hostel != "" {
		if err := s.backfillPreference(ctx, hostel); err != nil {
			return domain.Session{}, err
		}
		return session, nil
	}

	hostel, err := s.hostel(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	session.Hostel = hostel

	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	log.Debug().Str("hostel", hostel).Msg("backfilled session hostel")

	return session, nil
}

func (s *SessionService) Login(ctx context.Context, cmd LoginCommand) (domain.Session, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" {
		return domain.Session{}, fmt.Errorf("login: email is required")
	}

	hostel := strings.TrimSpace(cmd.Hostel)
	if hostel == "" {
		var err error
		if hostel, err = s.hostel(ctx); err != nil {
			return domain.Session{}, err
		}
	}

	session := domain.Session{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: domain.DisplayNameFor(cmd.DisplayName, email),
		Hostel:      hostel,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	if err := s.sessions.SetHostelPreference(ctx, hostel); err != nil {
		return domain.Session{}, fmt.Errorf("save hostel preference: %w", err)
	}

	return session, nil
}

// Logout clears every stored key and sends the user home.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return s.navigate(ctx, ports.Destination{Name: ports.DestinationHome})
}

func (s *SessionService) fromIdentity(ctx context.Context, identity domain.Identity) (domain.Session, error) {
	hostel, err := s.hostel(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	session := domain.Session{
		ID:          strings.TrimSpace(identity.ID),
		Email:       strings.TrimSpace(identity.Email),
		DisplayName: domain.DisplayNameFor(identity.DisplayName, identity.Email),
		Hostel:      hostel,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

func (s *SessionService) backfillPreference(ctx context.Context, hostel string) error {
	preference, err := s.sessions.HostelPreference(ctx)
	if err != nil {
		return fmt.Errorf("read hostel preference: %w", err)
	}
	if preference != "" {
		return nil
	}
	if err := s.sessions.SetHostelPreference(ctx, hostel); err != nil {
		return fmt.Errorf("save hostel preference: %w", err)
	}
	log.Debug().Str("hostel", hostel).Msg("backfilled hostel preference")
	return nil
}

func (s *SessionService) hostel(ctx context.Context) (string, error) {
	preference, err := s.sessions.HostelPreference(ctx)
	if err != nil {
		return "", fmt.Errorf("read hostel preference: %w", err)
	}
	if preference != "" {
		return preference, nil
	}
	return s.defaultHostel, nil
}

func (s *SessionService) navigate(ctx context.Context, dest ports.Destination) error {
	if s.navigator == nil {
		return nil
	}
	if err := s.navigator.Navigate(ctx, dest); err != nil {
		return fmt.Errorf("navigate to %s: %w", dest.Name, err)
	}
	return nil
}
