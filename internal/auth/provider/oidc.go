package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"irs-responder/internal/auth"
	"irs-responder/internal/logger"
)

var ErrMissingIDToken = errors.New("token response has no id_token")

// OIDCConfig describes one OpenID Connect issuer.
type OIDCConfig struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string // empty for public clients
	RedirectURL  string

	// AuthURL, when set, rewrites the discovered authorization endpoint.
	AuthURL func(discovered string) (string, error)
}

// OIDC is an OAuthProvider backed by discovery, PKCE and id token verification.
type OIDC struct {
	name     string
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func NewOIDC(ctx context.Context, cfg OIDCConfig) (*OIDC, error) {
	if cfg.Name == "" || cfg.Issuer == "" || cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%s: oidc config missing required fields", cfg.Name)
	}

	discovered, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("%s: oidc discovery: %w", cfg.Name, err)
	}

	endpoint := discovered.Endpoint()
	if cfg.AuthURL != nil {
		if endpoint.AuthURL, err = cfg.AuthURL(endpoint.AuthURL); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Name, err)
		}
	}

	return &OIDC{
		name: cfg.Name,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: discovered.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (p *OIDC) Name() string {
	return p.name
}

func (p *OIDC) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauth.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *OIDC) ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error) {
	token, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("%s: token exchange: %w", p.name, err)
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("%s: %w", p.name, ErrMissingIDToken)
	}

	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: verify id_token: %w", p.name, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s: id_token claims: %w", p.name, err)
	}

	identity := &auth.Identity{
		Provider:       p.name,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
	}
	if err := identity.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}

	logger.Debug("oidc id_token verified", map[string]any{
		"provider":       p.name,
		"email_verified": claims.EmailVerified,
	})

	return identity, nil
}
