package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "FocusFlow", time.Hour)

	pair, err := svc.GenerateTokenPair("user-1")
	require.NoError(t, err)
	require.EqualValues(t, 3600, pair.ExpiresIn)

	userID, err := svc.VerifyJWTToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestJWTRejectsForeignTokens(t *testing.T) {
	signer := NewJWTService("other-secret", "FocusFlow", time.Hour)
	token, err := signer.ToJWT("user-1")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", "FocusFlow", time.Hour).VerifyJWTToken(token)
	require.Error(t, err)

	wrongIssuer, err := NewJWTService("test-secret", "Elsewhere", time.Hour).ToJWT("user-1")
	require.NoError(t, err)
	_, err = NewJWTService("test-secret", "FocusFlow", time.Hour).VerifyJWTToken(wrongIssuer)
	require.Error(t, err)

	expired, err := NewJWTService("test-secret", "FocusFlow", -time.Minute).ToJWT("user-1")
	require.NoError(t, err)
	_, err = NewJWTService("test-secret", "FocusFlow", time.Hour).VerifyJWTToken(expired)
	require.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := NewJWTService("test-secret", "FocusFlow", time.Hour)

	token, err := svc.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	require.Equal(t, "abc.def", token)

	_, err = svc.ExtractTokenFromHeader("")
	require.Error(t, err)
	_, err = svc.ExtractTokenFromHeader("Token abc")
	require.Error(t, err)
	_, err = svc.ExtractTokenFromHeader("Bearer ")
	require.Error(t, err)
}
