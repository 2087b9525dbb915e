package middleware

import (
	"mime"
	"net/http"

	"wallet-transaction-api/pkg/apperror"
	"wallet-transaction-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// MediaType rejects request bodies that are neither JSON:API nor plain JSON
// with 415. Requests without a body pass.
func MediaType() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasBody(c.Request) {
			c.Next()
			return
		}

		raw := c.GetHeader("Content-Type")
		mt, _, err := mime.ParseMediaType(raw)
		if err != nil || (mt != response.MediaType && mt != "application/json") {
			response.Error(c, apperror.ErrUnsupportedMediaType(raw))
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}

// MaxBodySize limits the request body. Reads past the limit fail, and a
// declared Content-Length over the limit is rejected up front with 413.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, apperror.ErrPayloadTooLarge())
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
