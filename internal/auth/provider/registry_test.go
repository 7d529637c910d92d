package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irs-responder/internal/auth"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) AuthCodeURL(state, challenge string) string {
	return "https://idp.example/" + s.name + "?state=" + state + "&cc=" + challenge
}

func (s stubProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, error) {
	return &auth.Identity{Provider: s.name}, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(stubProvider{"keycloak"}, nil, stubProvider{"google"})

	p, err := r.Get("google")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())

	_, err = r.Get("linkedin")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Equal(t, []string{"google", "keycloak"}, r.Names())
}
