package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careqhq/careq/internal/config"
	"github.com/careqhq/careq/internal/domain"
)

func testManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "careq-test",
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := testManager()

	claims := &domain.Claims{
		SubjectID: uuid.New(),
		Name:      "Dr. Mehta",
		Role:      domain.RoleDoctor,
	}

	pair, err := m.GenerateTokenPair(claims)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	got, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claims.SubjectID, got.SubjectID)
	assert.Equal(t, claims.Name, got.Name)
	assert.Equal(t, domain.RoleDoctor, got.Role)

	refreshed, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, claims.SubjectID, refreshed.SubjectID)
}

func TestTokenTypeMismatch(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair(&domain.Claims{
		SubjectID: uuid.New(),
		Role:      domain.RolePatient,
	})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	m := testManager()
	other := NewJWTManager(config.JWTConfig{
		Secret:         "another-secret-entirely-32-chars!",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "careq-test",
	})

	pair, err := other.GenerateTokenPair(&domain.Claims{SubjectID: uuid.New(), Role: domain.RolePatient})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredToken(t *testing.T) {
	m := NewJWTManager(config.JWTConfig{
		Secret:         "0123456789abcdef0123456789abcdef",
		AccessTokenTTL: -time.Minute,
		Issuer:         "careq-test",
	})

	pair, err := m.GenerateTokenPair(&domain.Claims{SubjectID: uuid.New(), Role: domain.RolePatient})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
