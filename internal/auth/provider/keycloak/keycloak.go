package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"irs-responder/internal/auth/provider"
)

// New discovers a Keycloak realm, e.g. http://keycloak:8080/realms/irs-responder.
// The client is public and relies on PKCE. publicBaseURL is the origin browsers
// use to reach Keycloak when it differs from the one the service resolves.
func New(ctx context.Context, issuer, clientID, redirectURL, publicBaseURL string) (*provider.OIDC, error) {
	if publicBaseURL == "" {
		return nil, errors.New("keycloak: public base url is required")
	}

	return provider.NewOIDC(ctx, provider.OIDCConfig{
		Name:        "keycloak",
		Issuer:      issuer,
		ClientID:    clientID,
		RedirectURL: redirectURL,
		AuthURL: func(discovered string) (string, error) {
			return PublicAuthURL(discovered, publicBaseURL)
		},
	})
}

// PublicAuthURL moves authURL onto publicBaseURL's scheme and host, keeping
// the realm path.
func PublicAuthURL(authURL, publicBaseURL string) (string, error) {
	au, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("keycloak auth url: %w", err)
	}
	pb, err := url.Parse(strings.TrimRight(publicBaseURL, "/"))
	if err != nil || pb.Scheme == "" || pb.Host == "" {
		return "", fmt.Errorf("keycloak public base url %q is invalid", publicBaseURL)
	}

	au.Scheme = pb.Scheme
	au.Host = pb.Host
	au.Path = pb.Path + au.Path
	return au.String(), nil
}
