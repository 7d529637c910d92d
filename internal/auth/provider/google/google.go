package google

import (
	"context"

	"irs-responder/internal/auth/provider"
)

const issuer = "https://accounts.google.com"

// New discovers Google's OIDC endpoints. Google is a confidential client.
func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*provider.OIDC, error) {
	return provider.NewOIDC(ctx, provider.OIDCConfig{
		Name:         "google",
		Issuer:       issuer,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	})
}
