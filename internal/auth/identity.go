package auth

import "errors"

var ErrIncompleteIdentity = errors.New("identity is missing provider, subject or email")

// Identity is what an OIDC provider asserts about the person who signed in.
type Identity struct {
	Provider       string // registry name, "google" or "keycloak"
	ProviderUserID string // the id token "sub" claim
	Email          string
	EmailVerified  bool
}

// Validate reports whether the identity carries enough to be linked to a user.
func (i *Identity) Validate() error {
	if i.Provider == "" || i.ProviderUserID == "" || i.Email == "" {
		return ErrIncompleteIdentity
	}
	return nil
}
