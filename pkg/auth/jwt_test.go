package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("s3cret")

	token, err := issuer.CreateAccessToken("ops@swipefolio.com", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := issuer.ParseValidate(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "ops@swipefolio.com", claims.Subject)
}

func TestTokenIssuer_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenIssuer("one").CreateAccessToken("x", RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two").ParseValidate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("s3cret")
	token, err := issuer.CreateAccessToken("x", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	_, err = issuer.ParseValidate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Unconfigured(t *testing.T) {
	issuer := NewTokenIssuer("")
	assert.False(t, issuer.Configured())

	_, err := issuer.CreateAccessToken("x", RoleAdmin, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = issuer.ParseValidate("anything")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestTokenIssuer_NilIssuerRejects(t *testing.T) {
	var issuer *TokenIssuer
	assert.False(t, issuer.Configured())

	_, err := issuer.ParseValidate("anything")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
