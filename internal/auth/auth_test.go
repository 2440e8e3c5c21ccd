package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskboard/internal/models"
)

var testUser = models.User{ID: "3f1c9a52-1111-4d3e-8f00-000000000001", Email: "a@example.com", Name: "Alice", Role: models.RoleUser}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "taskboard-test", time.Hour)

	raw, err := tm.Generate(testUser)
	require.NoError(t, err)

	claims, err := tm.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.Subject)
	assert.Equal(t, testUser.Email, claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "taskboard-test", claims.Issuer)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", "taskboard-test", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := tm.Generate(testUser)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret", "taskboard-test", time.Hour)
	raw, err := tm.Generate(testUser)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", "taskboard-test", time.Hour).Verify(raw)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewTokenManager("secret", "someone-else", time.Hour).Verify(raw)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("unsigned", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": testUser.ID, "iss": "taskboard-test", "exp": time.Now().Add(time.Hour).Unix()})
		rawNone, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tm.Verify(rawNone)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestHasher(t *testing.T) {
	h := NewHasher(4)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)
	assert.True(t, h.Check(hash, "Secret123"))
	assert.False(t, h.Check(hash, "secret123"))
}

func TestEnforcerRoles(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	cases := []struct {
		role models.Role
		obj  string
		act  string
		want bool
	}{
		{models.RoleUser, ObjectTasks, ActionWrite, true},
		{models.RoleUser, ObjectProfile, ActionRead, true},
		{models.RoleUser, ObjectAdmin, ActionRead, false},
		{models.RoleAdmin, ObjectAdmin, ActionWrite, true},
		{models.RoleAdmin, ObjectTasks, ActionRead, true},
		{"GUEST", ObjectTasks, ActionRead, false},
	}
	for _, tc := range cases {
		got, err := e.Enforce(string(tc.role), tc.obj, tc.act)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s %s", tc.role, tc.obj, tc.act)
	}

	assert.Equal(t, []string{"ADMIN"}, RolesFor(e, ObjectAdmin, ActionRead))
	assert.Equal(t, []string{"USER", "ADMIN"}, RolesFor(e, ObjectTasks, ActionRead))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), models.PrincipalFromUser(testUser))
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, testUser.ID, p.ID)
}
