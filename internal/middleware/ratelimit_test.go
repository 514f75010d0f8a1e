package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newscheck/internal/config"
	"newscheck/internal/ratelimit"
)

func limitedRouter(budget config.RateBudget) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/predict", RateLimit(ratelimit.New(), "predict", budget), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	r := limitedRouter(config.RateBudget{MaxRequests: 2, WindowSeconds: 60})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/api/predict", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/predict", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "Rate limit exceeded. Max 2 requests per 60 seconds.", body["message"])
	assert.EqualValues(t, http.StatusTooManyRequests, body["code"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRateLimitSeparatesClients(t *testing.T) {
	r := limitedRouter(config.RateBudget{MaxRequests: 1, WindowSeconds: 60})

	first := httptest.NewRequest("POST", "/api/predict", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	second := httptest.NewRequest("POST", "/api/predict", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, second)
	assert.Equal(t, http.StatusOK, w.Code)

	repeat := httptest.NewRequest("POST", "/api/predict", nil)
	repeat.RemoteAddr = "10.0.0.1:5678"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, repeat)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
