package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mwickstrom1817/5gjobs/pkg/config"
)

func tokenTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "servicecommand",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := tokenTestConfig()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		Email: "owner@example.com",
		Name:  "Owner",
		Admin: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", claims.Email)
	require.Equal(t, "Owner", claims.Name)
	require.True(t, claims.Admin)
	require.Equal(t, cfg.Issuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestMintAccessToken_validatesInputs(t *testing.T) {
	now := time.Now()

	_, err := MintAccessToken(config.JWTConfig{}, now, AccessTokenPayload{Email: "a@b.c"})
	require.Error(t, err)

	cfg := tokenTestConfig()
	_, err = MintAccessToken(cfg, now, AccessTokenPayload{Email: "   "})
	require.Error(t, err)
}

func TestParseAccessToken_rejectsWrongSecretAndIssuer(t *testing.T) {
	cfg := tokenTestConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{Email: "a@b.c"})
	require.NoError(t, err)

	bad := cfg
	bad.Secret = "other-secret"
	_, err = ParseAccessToken(bad, token)
	require.Error(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)
}

func TestParseAccessToken_rejectsExpired(t *testing.T) {
	cfg := tokenTestConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{Email: "a@b.c"})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)
}
