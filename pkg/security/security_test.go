package security

import (
	"codementor_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.POST("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS(CORSOptions{
		AllowedOrigins: []string{"http://localhost:5173/"},
		ExposeHeaders:  []string{"X-Guidance-Stale"},
		MaxAgeSeconds:  600,
	}))

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed bool
	}{
		{"allowed origin", http.MethodGet, "http://localhost:5173", http.StatusOK, true},
		{"foreign origin", http.MethodGet, "https://evil.example", http.StatusOK, false},
		{"no origin", http.MethodGet, "", http.StatusOK, false},
		{"preflight allowed", http.MethodOptions, "http://localhost:5173", http.StatusNoContent, true},
		{"preflight foreign", http.MethodOptions, "https://evil.example", http.StatusNoContent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := serve(r, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "Origin", w.Header().Get("Vary"))
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
				assert.Equal(t, "X-Guidance-Stale", w.Header().Get("Access-Control-Expose-Headers"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
			if tt.method == http.MethodOptions {
				assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			}
		})
	}
}

func TestSecure(t *testing.T) {
	w := serve(newRouter(Secure()), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestLimiter_AllowsBurstThenRejects(t *testing.T) {
	l := NewLimiter(3, time.Hour, "")
	t.Cleanup(l.Close)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("a"), "request %d", i)
	}
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.Len())
}

func TestLimiter_SweepDropsIdleKeys(t *testing.T) {
	l := NewLimiter(5, time.Minute, "")
	t.Cleanup(l.Close)

	l.Allow("idle")
	l.sweep(time.Now())
	assert.Equal(t, 1, l.Len())

	l.sweep(time.Now().Add(l.expiry + time.Second))
	assert.Zero(t, l.Len())
}

func TestLimiter_CloseStopsJanitor(t *testing.T) {
	l := NewLimiter(5, time.Minute, "")
	l.Close()
	l.Close()

	select {
	case <-l.done:
	default:
		t.Fatal("janitor still running after Close")
	}
}

func TestLimiter_MiddlewareKeyedByUser(t *testing.T) {
	l := NewLimiter(1, time.Hour, "slow down")
	t.Cleanup(l.Close)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			uid := uint(1)
			if id == "2" {
				uid = 2
			}
			c.Set(util.ContextUserKey, &util.Claims{UserID: uid})
		}
		c.Next()
	})
	r.POST("/refresh", l.Middleware(UserKey), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		if user != "" {
			req.Header.Set("X-User", user)
		}
		return serve(r, req).Code
	}

	require.Equal(t, http.StatusOK, do("1"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.Header.Set("X-User", "1")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "slow down")

	// 同一 IP 上的另一个用户有独立额度
	assert.Equal(t, http.StatusOK, do("2"))
	// 未登录请求按 IP 计数
	assert.Equal(t, http.StatusOK, do(""))
	assert.Equal(t, http.StatusTooManyRequests, do(""))
}

func TestUserKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "ip:10.0.0.1", UserKey(c))
	c.Set(util.ContextUserKey, &util.Claims{UserID: 42})
	assert.Equal(t, "user:42", UserKey(c))
}
