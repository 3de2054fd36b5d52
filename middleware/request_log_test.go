package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		path      string
		wantRoute string
		wantCode  int
		wantLevel string
	}{
		{name: "matched route", path: "/recipes/7", wantRoute: "/recipes/:id", wantCode: http.StatusOK, wantLevel: "INFO"},
		{name: "unknown route", path: "/nope", wantRoute: "unmatched", wantCode: http.StatusNotFound, wantLevel: "WARN"},
		{name: "server error", path: "/boom", wantRoute: "/boom", wantCode: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := gin.New()
			r.Use(RequestLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
			r.GET("/recipes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
			r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantCode, w.Code)

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "access log must be a single JSON object")
			assert.Equal(t, "http.request", line["msg"])
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, "GET", line["method"])
			assert.Equal(t, tt.wantRoute, line["route"])
			assert.Equal(t, float64(tt.wantCode), line["status"])
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := gin.New()
	r.Use(Recovery(logger))
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http.panic", line["msg"])
	assert.Equal(t, "nil map", line["panic"])
}
