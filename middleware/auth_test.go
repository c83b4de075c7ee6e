package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodrunner-api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRevocations struct {
	keys map[string]time.Duration
}

func (f *fakeRevocations) Set(_ context.Context, key string, _ any, exp time.Duration) *redis.StatusCmd {
	f.keys[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRevocations) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

var testUser = &models.User{ID: "user-1", Email: "ana@example.com", Role: models.RoleRestaurant}

func newRouter(m *TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{m.AuthRequired()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		p := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "role": p.Role})
	})
	r.GET("/private", handlers...)
	return r
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, nil)

	token, err := m.Issue(testUser)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, models.RoleRestaurant, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenManager_ParseRejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, nil)

	other, err := NewTokenManager("other-secret", time.Hour, nil).Issue(testUser)
	require.NoError(t, err)
	expired, err := NewTokenManager("secret", -time.Minute, nil).Issue(testUser)
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1", Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": other,
		"expired":      expired,
		"alg none":     unsigned,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			assert.Error(t, err)
		})
	}
}

func TestAuthRequired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, nil)
	token, err := m.Issue(testUser)
	require.NoError(t, err)
	r := newRouter(m)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Not authorized to access this route"}`, w.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"user-1","role":"restaurant"}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	fake := &fakeRevocations{keys: map[string]time.Duration{}}
	revocations := NewRedisRevocations(fake)
	m := NewTokenManager("secret", time.Hour, revocations)
	r := newRouter(m)

	token, err := m.Issue(testUser)
	require.NoError(t, err)
	claims, err := m.Parse(token)
	require.NoError(t, err)

	require.NoError(t, revocations.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))
	assert.Contains(t, fake.keys, "revoked:"+claims.ID)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestRedisRevocations_SkipsExpired(t *testing.T) {
	fake := &fakeRevocations{keys: map[string]time.Duration{}}
	revocations := NewRedisRevocations(fake)

	require.NoError(t, revocations.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.Empty(t, fake.keys)

	revoked, err := revocations.IsRevoked(context.Background(), "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRoleRequired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, nil)
	r := newRouter(m, RoleRequired(models.RoleAdmin, models.RoleCustomer))

	token, err := m.Issue(testUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Required role(s): admin, customer")
}
