package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/", append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id"), "role": c.GetString("user_role")})
	})...)
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("secret", time.Hour)
	r := newRouter(AuthMiddleware(jwt))

	assert.Equal(t, http.StatusUnauthorized, get(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.Header{"Authorization": {"Token abc"}}).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.Header{"Authorization": {"Bearer abc"}}).Code)

	token, _, err := jwt.GenerateAccessToken(7, "till1", "cashier")
	require.NoError(t, err)
	rec := get(r, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"cashier"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	jwt := utils.NewJWTManager("secret", time.Hour)
	r := newRouter(AuthMiddleware(jwt), RequireRole("manager"))

	cashier, _, err := jwt.GenerateAccessToken(1, "till1", "cashier")
	require.NoError(t, err)
	manager, _, err := jwt.GenerateAccessToken(2, "boss", "manager")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, http.Header{"Authorization": {"Bearer " + cashier}}).Code)
	assert.Equal(t, http.StatusOK, get(r, http.Header{"Authorization": {"Bearer " + manager}}).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewClientRateLimiter(config.RateLimitConfig{Requests: 2, Duration: 3600})
	r := newRouter(rl.Middleware())

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	rec := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, rl.Clients())

	rl.cleanup(time.Now().Add(time.Hour))
	assert.Zero(t, rl.Clients())
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	r := newRouter(LoggerMiddleware(zaptest.NewLogger(t)))

	rec := get(r, nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(r, http.Header{"X-Request-Id": {"abc-123"}})
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
