package auth

import (
	"arena-lab/errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken(secret, "alice", time.Hour)
	req.NoError(err)

	claims, err := ValidateToken(secret, token)
	req.NoError(err)
	req.Equal("alice", claims.Username)
	req.Equal("alice", claims.Subject)
	req.Equal(issuer, claims.Issuer)
}

func TestValidateToken_Rejections(t *testing.T) {
	expired, err := GenerateToken(secret, "alice", -time.Minute)
	require.NoError(t, err)
	otherSecret, err := GenerateToken([]byte("other"), "alice", time.Hour)
	require.NoError(t, err)
	noName, err := GenerateToken(secret, "", time.Hour)
	require.NoError(t, err)
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionClaims{
		Username:         "alice",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Expired token", expired},
		{"Signed with another secret", otherSecret},
		{"Empty username", noName},
		{"Foreign issuer", foreign},
		{"Not a token", "not.a.token"},
		{"Empty string", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := ValidateToken(secret, tt.token)
			req.ErrorIs(err, errors.ErrInvalidToken)
		})
	}
}
