package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minischetti/meal-planner-api/domain"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret")

	token, err := svc.GenerateToken("p1", "ana@example.com")
	require.NoError(t, err)

	sub, err := svc.GetSubjectByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "p1", sub.PersonID)
	assert.Equal(t, "ana@example.com", sub.Email)
	assert.WithinDuration(t, time.Now(), sub.IssuedAt, 2*time.Second)
}

func TestGetSubjectByToken_Rejects(t *testing.T) {
	svc := NewJWTService("secret")

	expired := &jwtService{secretKey: "secret", issuer: "meal-planner", now: func() time.Time {
		return time.Now().Add(-3 * time.Hour)
	}}
	old, err := expired.GenerateToken("p1", "")
	require.NoError(t, err)
	_, err = svc.GetSubjectByToken(old)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	other, err := NewJWTService("other").GenerateToken("p1", "")
	require.NoError(t, err)
	_, err = svc.GetSubjectByToken(other)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.GetSubjectByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwtPersonClaim{PersonID: "p1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.GetSubjectByToken(unsigned)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
