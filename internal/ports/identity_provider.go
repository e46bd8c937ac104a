package ports

import (
	"context"

	"github.com/bnema/poolify-cli/internal/domain"
)

// IdentityProvider delivers the current external user to fn, nil when signed out.
// Implementations call fn at least once before returning.
type IdentityProvider interface {
	OnAuthChange(ctx context.Context, fn func(*domain.Identity)) error
}
