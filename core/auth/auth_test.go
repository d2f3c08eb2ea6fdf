package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("manga123")
	require.NoError(t, err)
	assert.NotEqual(t, "manga123", hash)

	assert.True(t, VerifyPassword("manga123", hash))
	assert.False(t, VerifyPassword("errada", hash))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("manga123", "não é um hash bcrypt"))
	assert.False(t, VerifyPassword("manga123", ""))
	assert.False(t, VerifyPassword("manga123", "$2a$corrompido"))
}

func TestLongPasswordsTruncateConsistently(t *testing.T) {
	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	// bcrypt only sees the first 72 bytes, so both sides agree.
	assert.True(t, VerifyPassword(long, hash))
	assert.True(t, VerifyPassword(strings.Repeat("a", 72), hash))
	assert.False(t, VerifyPassword(strings.Repeat("a", 71), hash))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("segredo-teste", "HS256", 60)

	token, err := issuer.Generate("joao")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "joao", sub)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("segredo-a", "HS256", 60).Generate("joao")
	require.NoError(t, err)

	_, err = NewTokenIssuer("segredo-b", "HS256", 60).Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("segredo-teste", "HS256", -1)
	// expireMinutes <= 0 defaults to 60, build an expired token by
	// hand through a negative-duration issuer instead.
	issuer.expireMinutes = -10

	token, err := issuer.Generate("joao")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("segredo-teste", "HS256", 60)
	_, err := issuer.Parse("nem.um.jwt")
	assert.Error(t, err)
}

func TestTokenRejectsOtherSigningMethod(t *testing.T) {
	// Mesmo segredo, métodos diferentes: o parse só aceita o método
	// configurado no emissor.
	token, err := NewTokenIssuer("segredo-teste", "HS512", 60).Generate("joao")
	require.NoError(t, err)

	_, err = NewTokenIssuer("segredo-teste", "HS256", 60).Parse(token)
	assert.Error(t, err)
}

func TestTokenAlgorithmConfiguration(t *testing.T) {
	issuer := NewTokenIssuer("segredo-teste", "HS384", 60)
	token, err := issuer.Generate("joao")
	require.NoError(t, err)

	sub, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "joao", sub)

	// Algoritmo desconhecido cai em HS256.
	fallback := NewTokenIssuer("segredo-teste", "RS256", 60)
	assert.Equal(t, "HS256", fallback.method.Alg())
}
