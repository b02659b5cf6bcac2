package session

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-travel-planner/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestIssuer(t *testing.T, clock *fakeClock) *Issuer {
	t.Helper()

	issuer, err := NewIssuer("test-secret", 24*time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return issuer
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("  ", time.Hour)
	require.Error(t, err)
}

func TestIssuer_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, clock)

	token, expiresAt, err := issuer.Issue("user-1", model.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(24*time.Hour), expiresAt)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, model.RoleMember, claims.Role)
	assert.Equal(t, clock.now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestIssuer_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: issuedAt}
	issuer := newTestIssuer(t, clock)

	token, _, err := issuer.Issue("user-1", model.RoleMember)
	require.NoError(t, err)

	clock.now = issuedAt.Add(23*time.Hour + 59*time.Minute)
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	clock.now = issuedAt.Add(24*time.Hour + time.Minute)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestIssuer_RejectsTampering(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	token, _, err := issuer.Issue("user-1", model.RoleMember)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-2",
		"role": model.RoleAdmin,
		"iat":  clock.now.Unix(),
		"exp":  clock.now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")

	// Payload swapped under the original signature.
	_, err = issuer.Verify(parts[0] + "." + forgedParts[1] + "." + parts[2])
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	_, err = issuer.Verify("")
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestIssuer_RejectsOtherSecretsAndAlgorithms(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	other, err := NewIssuer("another-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	token, _, err := other.Issue("user-1", model.RoleMember)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"exp": clock.now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(unsigned)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestIssuer_RequiresSubjectAndExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": clock.now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = issuer.Verify(noSubject)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = issuer.Verify(noExpiry)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}
