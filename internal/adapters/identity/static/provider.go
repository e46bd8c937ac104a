package static

import (
	"context"
	"strings"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/bnema/poolify-cli/internal/ports"
)

// Provider reports one fixed identity, typically taken from configuration.
// An identity with neither id nor email is reported as signed out.
type Provider struct {
	identity domain.Identity
}

var _ ports.IdentityProvider = (*Provider)(nil)

func NewProvider(identity domain.Identity) *Provider {
	return &Provider{identity: domain.Identity{
		ID:          strings.TrimSpace(identity.ID),
		Email:       strings.TrimSpace(identity.Email),
		DisplayName: strings.TrimSpace(identity.DisplayName),
	}}
}

func (p *Provider) OnAuthChange(ctx context.Context, fn func(*domain.Identity)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.identity.ID == "" && p.identity.Email == "" {
		fn(nil)
		return nil
	}

	identity := p.identity
	fn(&identity)
	return nil
}
