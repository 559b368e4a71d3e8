// Package billing is the subscription-provider boundary. Purchases happen
// through a platform store on the device; this side only answers
// entitlement questions and lists products.
package billing

import (
	"context"

	"github.com/mfreitas/studypilot/internal/errors"
)

// Product identifiers offered to subscribers.
const (
	ProductMonthly = "dfs_elite_monthly"
	ProductAnnual  = "dfs_elite_annual"
)

// EntitlementPremium gates premium features.
const EntitlementPremium = "premium"

// Product is one purchasable subscription package.
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Provider answers subscription questions for the current user.
type Provider interface {
	Products(ctx context.Context) ([]Product, error)
	IsPremium(ctx context.Context) (bool, error)
}

// Disabled is the Provider used when no billing backend is configured.
// Entitlement checks report free tier; purchases are unavailable.
type Disabled struct{}

func (Disabled) Products(ctx context.Context) ([]Product, error) {
	return nil, errors.NewUnavailableError("billing")
}

func (Disabled) IsPremium(ctx context.Context) (bool, error) {
	return false, nil
}

var _ Provider = Disabled{}
