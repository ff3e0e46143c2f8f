// Package response writes the JSON envelopes shared by every endpoint.
package response

import (
	"net/http"
	"net/url"
	"strconv"

	"poll-service/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// default messages
var msg = map[int]string{
	http.StatusBadRequest:          "Invalid input data",
	http.StatusUnauthorized:        "Authentication required",
	http.StatusForbidden:           "You do not have permission to perform this action.",
	http.StatusNotFound:            "Not found.",
	http.StatusConflict:            "Conflict",
	http.StatusTooManyRequests:     "Rate limit exceeded",
	http.StatusInternalServerError: "An unexpected error occurred.",
}

// Message returns the default message for an HTTP status.
func Message(code int) string {
	if m, ok := msg[code]; ok {
		return m
	}
	return http.StatusText(code)
}

// Error writes an ErrorResponse and aborts the chain. An empty message is
// replaced by the status default.
func Error(c *gin.Context, code int, message, details string) {
	if message == "" {
		message = Message(code)
	}
	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// PageParams reads page and page_size from the query string.
func PageParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err = strconv.Atoi(c.Query("page_size"))
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func pageURL(c *gin.Context, page int) *string {
	u := url.URL{Path: c.Request.URL.Path}
	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	s := scheme + "://" + c.Request.Host + u.String()
	return &s
}

// NewPage builds the paginated envelope with absolute next and previous links.
func NewPage[T any](c *gin.Context, count int64, page, size int, results []T) models.Page[T] {
	if results == nil {
		results = []T{}
	}
	p := models.Page[T]{Count: count, Results: results}
	if int64(page*size) < count {
		p.Next = pageURL(c, page+1)
	}
	if page > 1 {
		p.Previous = pageURL(c, page-1)
	}
	return p
}
