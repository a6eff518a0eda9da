package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", time.Hour).WithClock(fixedClock(now))

	tests := []struct {
		name        string
		permissions []string
		want        []string
	}{
		{name: "空集合", permissions: nil, want: []string{}},
		{name: "单个接口", permissions: []string{"/post/add"}, want: []string{"/post/add"}},
		{name: "去重排序", permissions: []string{"/post/list", "/post/add", "/post/list", ""}, want: []string{"/post/add", "/post/list"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Create(42, "alice", tt.permissions)
			require.NoError(t, err)

			claims, err := svc.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, int64(42), claims.UserID)
			assert.Equal(t, "alice", claims.UserName)
			assert.Equal(t, tt.want, claims.Permissions)
			assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
			assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
		})
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", time.Minute).WithClock(fixedClock(now))

	token, err := svc.Create(1, "admin", []string{"/a"})
	require.NoError(t, err)

	svc.WithClock(fixedClock(now.Add(2 * time.Minute)))
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, model.KindAuthentication, model.KindOf(err))
}

func TestTokenSignatureInvalid(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Create(1, "admin", []string{"/a"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)

	// 篡改载荷后签名不匹配
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := NewTokenService("secret-a", time.Hour).Create(1, "admin", []string{"/a", "/b"})
	require.NoError(t, err)
	tampered := parts[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]
	_, err = issuer.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenMalformed(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	for _, token := range []string{"", "abc", "a.b.c", "a.b"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, token)
	}
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	claims := &Claims{
		UserID:      1,
		Permissions: []string{"/a"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
	assert.Equal(t, model.KindAuthentication, model.KindOf(err))

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.Equal(t, model.KindAuthentication, model.KindOf(err))
}

func TestTokenWithoutExpiry(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestClaimsHasPermission(t *testing.T) {
	c := &Claims{Permissions: []string{"/post/add", "/post/list"}}
	assert.True(t, c.HasPermission("/post/add"))
	assert.False(t, c.HasPermission("/post/delete"))
	assert.False(t, c.HasPermission("/post"))
	assert.False(t, c.HasPermission("/post/add/"))
}
