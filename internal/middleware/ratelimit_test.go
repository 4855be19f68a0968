package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessathi/internal/middleware"
)

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	limit, err := middleware.RateLimit("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(limit)
	r.POST("/export", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/export", http.NoBody)
		req.RemoteAddr = "10.0.0.1:5000"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_InvalidRate(t *testing.T) {
	_, err := middleware.RateLimit("ten per minute")
	assert.Error(t, err)
}
