package middleware

import (
	"bytes"
	"net/http"
	"time"

	"wallet-transaction-api/internal/core/ports"
	"wallet-transaction-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderCache reports HIT or MISS on cacheable reads.
const HeaderCache = "X-Cache"

// Response cache scopes. A scope is invalidated as a whole.
const (
	ScopeWallets      = "wallets"
	ScopeTransactions = "transactions"
)

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves GET responses of scope from cache, keyed by the full
// request URI. Only 200 responses are stored, and only under the generation
// the lookup saw, so a body rendered before a concurrent write is never
// served after it. Cache errors degrade to a normal request.
func ResponseCache(cache ports.ResponseCache, scope string, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := c.Request.URL.RequestURI()

		body, gen, err := cache.Get(ctx, scope, key)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("response cache read failed")
		}
		if body != nil {
			c.Header(HeaderCache, "HIT")
			c.Data(http.StatusOK, response.MediaType, body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header(HeaderCache, "MISS")
		c.Next()

		if err != nil || rec.Status() != http.StatusOK {
			return
		}
		if err := cache.Set(ctx, scope, gen, key, rec.buf.Bytes(), ttl); err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("response cache write failed")
		}
	}
}

// InvalidateOnWrite drops the cached responses of scopes after any
// successful non-GET request.
func InvalidateOnWrite(cache ports.ResponseCache, log zerolog.Logger, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}

		for _, scope := range scopes {
			if err := cache.Invalidate(c.Request.Context(), scope); err != nil {
				log.Error().Err(err).Str("scope", scope).Msg("failed to invalidate response cache")
			}
		}
	}
}
