package response

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wallet-transaction-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MediaType is the JSON:API media type every response is served with.
const MediaType = "application/vnd.api+json"

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// Resource is a JSON:API resource object.
type Resource struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	Attributes interface{} `json:"attributes"`
}

// Document is the success envelope. Data is a Resource, a slice of them, or nil.
type Document struct {
	Data  interface{} `json:"data"`
	Links *Links      `json:"links,omitempty"`
	Meta  Meta        `json:"meta"`
}

// Links are the pagination links of a list document.
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// Meta carries request metadata and, for lists, pagination counters.
type Meta struct {
	RequestID  string      `json:"request_id"`
	Timestamp  string      `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page a list document holds.
type Pagination struct {
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Count int64 `json:"count"`
}

// ErrorObject is a single JSON:API error.
type ErrorObject struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// ErrorDocument is the error envelope.
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
	Meta   Meta          `json:"meta"`
}

// OK sends a 200 document.
func OK(c *gin.Context, data interface{}) {
	render(c, http.StatusOK, Document{Data: data, Meta: newMeta(c)})
}

// Created sends a 201 document.
func Created(c *gin.Context, data interface{}) {
	render(c, http.StatusCreated, Document{Data: data, Meta: newMeta(c)})
}

// NoContent sends an empty 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated sends a 200 list document with links and pagination meta.
func Paginated(c *gin.Context, data interface{}, page, pageSize int, count int64) {
	pages := PageCount(count, pageSize)
	meta := newMeta(c)
	meta.Pagination = &Pagination{Page: page, Pages: pages, Count: count}

	u := c.Request.URL
	links := &Links{First: pageLink(u, 1), Last: pageLink(u, pages)}
	if page < pages {
		next := pageLink(u, page+1)
		links.Next = &next
	}
	if page > 1 {
		prev := pageLink(u, page-1)
		links.Prev = &prev
	}

	render(c, http.StatusOK, Document{Data: data, Links: links, Meta: meta})
}

// PageCount returns the number of pages needed for count rows; at least 1.
func PageCount(count int64, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	return int((count + int64(pageSize) - 1) / int64(pageSize))
}

// Error sends an error document. *apperror.AppError anywhere in the chain
// decides status and code; anything else is a 500 that hides the cause.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.New("SYS_000", "An unexpected error occurred.", http.StatusInternalServerError)
	}

	render(c, appErr.HTTPStatus, ErrorDocument{
		Errors: []ErrorObject{{
			Status: strconv.Itoa(appErr.HTTPStatus),
			Code:   appErr.Code,
			Detail: appErr.Message,
		}},
		Meta: newMeta(c),
	})
}

func render(c *gin.Context, status int, body interface{}) {
	c.Header("Content-Type", MediaType)
	c.JSON(status, body)
}

func pageLink(u *url.URL, page int) string {
	q := u.Query()
	q.Del("page")
	q.Set("page[number]", strconv.Itoa(page))
	return u.Path + "?" + q.Encode()
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
