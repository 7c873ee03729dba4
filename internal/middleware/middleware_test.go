package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/cache"
	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	tests := []struct {
		name     string
		claims   jwt.MapClaims
		wantUser string
		wantRole string
		wantErr  bool
	}{
		{"sub claim", jwt.MapClaims{"sub": "user-1"}, "user-1", RoleUser, false},
		{"user_id claim with role", jwt.MapClaims{"user_id": "user-2", "role": "Admin"}, "user-2", RoleAdmin, false},
		{"numeric id with roles", jwt.MapClaims{"id": float64(42), "roles": []interface{}{"admin"}}, "42", RoleAdmin, false},
		{"missing user", jwt.MapClaims{"role": "admin"}, "", "", true},
		{"expired", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix()}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), tt.claims))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, identity.UserID)
			assert.Equal(t, tt.wantRole, identity.Role)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := verifier.Verify(signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u"}))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		_, err := verifier.Verify(signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "u"}))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": c.GetString(UserRoleKey)})
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	logger := utils.NewNopLogger()
	r := newRouter(Authenticate(NewJWTVerifier(testSecret), logger))

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)

	assert.Equal(t, http.StatusUnauthorized, do(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer garbage").Code)

	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-1"})
	w = do(r, "bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
}

func TestRequireRole(t *testing.T) {
	logger := utils.NewNopLogger()
	r := newRouter(Authenticate(NewJWTVerifier(testSecret), logger), RequireRole(RoleAdmin))

	user := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-1"})
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+user).Code)

	admin := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "admin-1", "role": "admin"})
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+admin).Code)
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()

	counter := cache.NewRedisCounter(client, "rl")
	r := newRouter(RateLimit(counter, "api", 2, time.Minute, utils.NewNopLogger()))

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"rate_limited"`)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	mini.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
}

func TestRateLimitKeysByUser(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()

	logger := utils.NewNopLogger()
	r := newRouter(
		Authenticate(NewJWTVerifier(testSecret), logger),
		RateLimit(cache.NewRedisCounter(client, "rl"), "api", 1, time.Minute, logger),
	)

	alice := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "alice"})
	bob := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "bob"})

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "Bearer "+alice).Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+bob).Code)
	assert.True(t, mini.Exists("rl:api:user:alice"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := newRouter(RateLimit(failingCounter{}, "api", 1, time.Minute, utils.NewNopLogger()))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, "").Code)
	}
}
