// Package auth is the boundary to the external identity provider. The
// provider itself (sign-in, sign-up, session management) is out of scope;
// the companion only needs a bearer token on demand.
package auth

import "context"

// TokenProvider supplies the bearer token attached to backend requests.
// An empty token with a nil error means "not signed in"; the gateway then
// sends the request unauthenticated.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticProvider returns a fixed token, typically read from configuration.
type StaticProvider struct {
	token string
}

// NewStaticProvider creates a provider that always returns token.
func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

func (p *StaticProvider) Token(_ context.Context) (string, error) {
	return p.token, nil
}

var _ TokenProvider = (*StaticProvider)(nil)
