package resolver

import (
	"context"

	"irs-responder/internal/auth"
)

// Resolver maps a provider identity to the id of a local user, creating or
// linking the user on first sign-in.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (userID string, err error)
}
