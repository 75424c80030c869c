package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flexprice/couponmanager/internal/config"
	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/logger"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(cfg *config.Configuration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware, CORSMiddleware(cfg), ErrorHandler(logger.NewNopLogger()))
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": types.GetRequestID(c.Request.Context())})
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Error(ierr.NewError("coupon cpn_1 not found").
			WithHint("Coupon not found").
			WithReportableDetails(map[string]any{"coupon_id": "cpn_1"}).
			Mark(ierr.ErrNotFound))
	})
	return r
}

func TestRequestIDIsGenerated(t *testing.T) {
	r := newEngine(config.GetDefaultConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	id := rec.Header().Get(types.HeaderRequestID)
	require.NotEmpty(t, id)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id, body["request_id"])
}

func TestErrorHandlerRendersHintAndDetails(t *testing.T) {
	r := newEngine(config.GetDefaultConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, ierr.ErrCodeNotFound, body.Error.Code)
	assert.Equal(t, "Coupon not found", body.Error.Display)
	assert.Equal(t, "cpn_1", body.Error.Details["coupon_id"])
}

func TestCORS(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Server.AllowedOrigins = []string{"https://coupons.example.com"}
	r := newEngine(cfg)

	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set("Origin", "https://coupons.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://coupons.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowAll(t *testing.T) {
	r := newEngine(config.GetDefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
