package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = Identity{
	ID:    "u-1",
	Email: "admin@techlab.io",
	Name:  "Admin",
	Role:  "admin",
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("test-jwt-secret"), time.Hour)
	token, exp, err := iss.Issue(testIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin@techlab.io", claims.Email)
	assert.Equal(t, "Admin", claims.Name)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsAdmin())
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestIssuer_Expired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("test-jwt-secret"), time.Hour)
	old := iss.WithClock(func() time.Time { return time.Now().Add(-61 * time.Minute) })

	token, _, err := old.Issue(testIdentity)
	require.NoError(t, err)

	_, err = iss.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpired)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestIssuer_NotYetValid(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("test-jwt-secret"), time.Hour)
	future := iss.WithClock(func() time.Time { return time.Now().Add(10 * time.Minute) })

	token, _, err := future.Issue(testIdentity)
	require.NoError(t, err)

	_, err = iss.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotYetValid)
}

func TestIssuer_Malformed(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("test-jwt-secret"), time.Hour)
	other := NewIssuer([]byte("another-secret"), time.Hour)

	forged, _, err := other.Issue(testIdentity)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-valid-jwt"},
		{name: "wrong secret", token: forged},
		{name: "tampered payload", token: tamper(t, iss)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := iss.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.NotErrorIs(t, err, ErrExpired)
		})
	}
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("test-jwt-secret"), time.Hour)
	claims := Claims{UserID: "u-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-jwt-secret"))
	require.NoError(t, err)

	_, err = iss.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestIssuer_ExpiresIn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1h", NewIssuer([]byte("s"), 0).ExpiresIn())
	assert.Equal(t, "30m", NewIssuer([]byte("s"), 30*time.Minute).ExpiresIn())
}

func tamper(t *testing.T, iss *Issuer) string {
	t.Helper()
	token, _, err := iss.Issue(testIdentity)
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	other, _, err := iss.Issue(Identity{ID: "u-2", Email: "x@y.io", Role: "admin"})
	require.NoError(t, err)
	parts[1] = strings.Split(other, ".")[1]
	return strings.Join(parts, ".")
}
