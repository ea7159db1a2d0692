package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rayob-cms/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-that-is-at-least-32-bytes")

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokens(clock *fakeClock, store RevocationStore) *tokenService {
	return newTokenService(testSecret, time.Hour, store, clock.Now)
}

func TestTokenIssueAndValidate(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock, newMemoryRevocationStore(clock.Now))
	user := &models.User{ID: 7, Email: "staff@example.com", Role: models.RoleStaff}

	token, expiresAt, err := tokens.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, clock.t.Add(time.Hour), expiresAt, time.Second)

	clock.Advance(59 * time.Minute)
	identity, err := tokens.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), identity.UserID)
	assert.Equal(t, "staff@example.com", identity.Email)
	assert.Equal(t, models.RoleStaff, identity.Role)
	assert.NotEmpty(t, identity.TokenID)
}

func TestTokenExpired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock, newMemoryRevocationStore(clock.Now))

	token, _, err := tokens.Issue(&models.User{ID: 1, Email: "a@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	_, err = tokens.Validate(context.Background(), token)
	assert.True(t, errors.Is(err, models.ErrExpiredToken))
}

func TestTokenInvalid(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock, newMemoryRevocationStore(clock.Now))

	token, _, err := tokens.Issue(&models.User{ID: 1, Email: "a@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	other := newTokenService([]byte("a-completely-different-signing-secret"), time.Hour, NewMemoryRevocationStore(), clock.Now)
	forged, _, err := other.Issue(&models.User{ID: 1, Email: "a@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Role: models.RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, input := range map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"wrong secret": forged,
		"tampered":     tampered,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Validate(context.Background(), input)
			assert.True(t, errors.Is(err, models.ErrInvalidToken), "got %v", err)
		})
	}
}

func TestTokenRevoke(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock, newMemoryRevocationStore(clock.Now))
	user := &models.User{ID: 3, Email: "v@example.com", Role: models.RoleViewer}

	token, _, err := tokens.Issue(user)
	require.NoError(t, err)
	other, _, err := tokens.Issue(user)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(context.Background(), token))

	_, err = tokens.Validate(context.Background(), token)
	assert.True(t, errors.Is(err, models.ErrInvalidToken))

	_, err = tokens.Validate(context.Background(), other)
	assert.NoError(t, err)
}

func TestTokenRevokeExpiredIsNoop(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock, newMemoryRevocationStore(clock.Now))

	token, _, err := tokens.Issue(&models.User{ID: 3, Email: "v@example.com", Role: models.RoleViewer})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	assert.NoError(t, tokens.Revoke(context.Background(), token))
}

func TestTokenRevokeInvalid(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock, newMemoryRevocationStore(clock.Now))

	err := tokens.Revoke(context.Background(), "junk")
	assert.True(t, errors.Is(err, models.ErrInvalidToken))
}
