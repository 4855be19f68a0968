package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessathi/internal/config"
	"businessathi/internal/domain"
	"businessathi/internal/service"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: 15 * time.Minute, Issuer: "businessathi"}
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := service.NewAuthService(testJWTConfig())
	userID := uuid.New()

	tok, err := svc.IssueToken(userID, "owner@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)

	claims, err := svc.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestAuthService_IssueToken_MissingUser(t *testing.T) {
	svc := service.NewAuthService(testJWTConfig())
	_, err := svc.IssueToken(uuid.Nil, "")
	assert.ErrorIs(t, err, domain.ErrMissingUserID)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	tok, err := service.NewAuthService(testJWTConfig()).IssueToken(uuid.New(), "")
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "another-secret"
	_, err = service.NewAuthService(other).ValidateToken(tok.AccessToken)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_WrongAudience(t *testing.T) {
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"refresh"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.New(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.NewAuthService(testJWTConfig()).ValidateToken(signed)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpiry = -time.Minute
	tok, err := service.NewAuthService(cfg).IssueToken(uuid.New(), "")
	require.NoError(t, err)

	_, err = service.NewAuthService(cfg).ValidateToken(tok.AccessToken)
	assert.Error(t, err)
}
