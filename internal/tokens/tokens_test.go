package tokens

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	t.Parallel()

	iss, err := NewIssuer("test-jwt-secret", time.Hour)
	require.NoError(t, err)

	userID := uuid.NewString()
	token, exp, err := iss.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestIssuer_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	iss, err := NewIssuer("test-jwt-secret", time.Minute)
	require.NoError(t, err)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := iss.Issue("u1")
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Parse(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestIssuer_RejectsForeignSignature(t *testing.T) {
	t.Parallel()

	a, err := NewIssuer("secret-a", time.Hour)
	require.NoError(t, err)
	b, err := NewIssuer("secret-b", time.Hour)
	require.NoError(t, err)

	token, _, err := a.Issue("u1")
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = b.Parse("not-a-jwt")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestGenerateReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a, err := GenerateReset(now, 30*time.Minute)
	require.NoError(t, err)
	b, err := GenerateReset(now, 30*time.Minute)
	require.NoError(t, err)

	assert.Len(t, a.Plain, 40)
	assert.NotEqual(t, a.Plain, b.Plain)
	assert.NotEqual(t, a.Plain, a.Hash)
	assert.Equal(t, HashResetToken(a.Plain), a.Hash)
	assert.Len(t, a.Hash, 64)
	assert.Equal(t, now.Add(30*time.Minute), a.ExpiresAt)
}

func TestCookies(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	c := SessionCookie("abc", exp, true)
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, exp, c.Expires)

	cleared := ClearCookie(false)
	assert.Equal(t, "", cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.True(t, cleared.Expires.Before(time.Now()))
}
