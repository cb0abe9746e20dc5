package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFixedWindowLimiter(t *testing.T) {
	l := NewFixedWindowLimiter(2, time.Hour)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	// Keys budget independently.
	assert.True(t, l.Allow("b"))
}

func TestFixedWindowLimiterResets(t *testing.T) {
	l := NewFixedWindowLimiter(1, 20*time.Millisecond)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("a"))
}

func TestRateLimitKeysByAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if h := c.GetHeader("X-Test-User"); h != "" {
			id, _ := strconv.ParseUint(h, 10, 32)
			c.Set("user_id", uint(id))
		}
	})
	r.Use(RateLimit(NewFixedWindowLimiter(1, time.Hour)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// Two users behind the same IP get separate budgets.
	assert.Equal(t, http.StatusOK, get("1"))
	assert.Equal(t, http.StatusOK, get("2"))
	assert.Equal(t, http.StatusTooManyRequests, get("1"))

	// Unauthenticated traffic falls back to the IP budget.
	assert.Equal(t, http.StatusOK, get(""))
	assert.Equal(t, http.StatusTooManyRequests, get(""))
}
