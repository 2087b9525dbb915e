package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wallet-transaction-api/internal/core/ports"
	"wallet-transaction-api/internal/core/ports/mocks"
	"wallet-transaction-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var doc response.ErrorDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.NotEmpty(t, doc.Errors)
	return doc.Errors[0].Code
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(response.RequestIDKey))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "client-supplied-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "client-supplied-1", w.Body.String())
}

func TestRequestID_RejectsOversizedHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, string(bytes.Repeat([]byte("a"), maxRequestIDLength+1)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Len(t, w.Header().Get(HeaderRequestID), 36, "a fresh UUID replaces the oversized id")
}

func TestRecovery_RendersInternalError(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), Recovery(zerolog.Nop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, response.MediaType, w.Header().Get("Content-Type"))
	assert.Equal(t, "SYS_001", decodeErrorCode(t, w))
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRequestLogger_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(), RequestLogger(zerolog.New(&buf)))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(HeaderRequestID, "rid-7")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "rid-7", entry["request_id"])
	assert.Equal(t, float64(404), entry["status"])
}

func TestJWTAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	router := gin.New()
	router.POST("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxSubject))
	})

	tests := []struct {
		name   string
		header string
		setup  func()
		status int
	}{
		{"missing header", "", func() {}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", func() {}, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", func() {
			tokenSvc.EXPECT().Validate("bad").Return(nil, errors.New("signature is invalid"))
		}, http.StatusUnauthorized},
		{"valid token", "Bearer good", func() {
			tokenSvc.EXPECT().Validate("good").Return(&ports.TokenClaims{Subject: "ops"}, nil)
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ops", w.Body.String())
			} else {
				assert.Equal(t, "AUTH_001", decodeErrorCode(t, w))
			}
		})
	}
}
