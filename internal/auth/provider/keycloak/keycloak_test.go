package keycloak

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAuthURL(t *testing.T) {
	t.Parallel()

	got, err := PublicAuthURL(
		"http://keycloak:8080/realms/irs-responder/protocol/openid-connect/auth",
		"https://login.example.com/",
	)
	require.NoError(t, err)
	assert.Equal(t, "https://login.example.com/realms/irs-responder/protocol/openid-connect/auth", got)

	_, err = PublicAuthURL("http://keycloak:8080/auth", "not a url")
	assert.Error(t, err)
}

func TestNewRequiresFields(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "", "client", "https://app/cb", "https://kc")
	assert.Error(t, err)
}
