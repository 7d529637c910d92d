package provider

import (
	"context"

	"irs-responder/internal/auth"
)

// OAuthProvider is an OIDC sign-in option offered on the login page.
// Implementations only report who signed in; linking to a user and
// issuing the session happen in the auth handler.
type OAuthProvider interface {
	// Name is the path segment in /oauth/login/:provider.
	Name() string

	// AuthCodeURL builds the authorization redirect with an S256 PKCE challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode redeems the callback code and verifies the id token.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, error)
}
