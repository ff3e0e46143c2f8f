package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"poll-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func context(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestPageParams(t *testing.T) {
	c, _ := context("/api/v1/polls?page=3&page_size=500")
	page, size := PageParams(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageSize, size)

	c, _ = context("/api/v1/polls?page=-1&page_size=abc")
	page, size = PageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)
}

func TestNewPage(t *testing.T) {
	c, _ := context("/api/v1/polls?page=2&page_size=2&search=x")
	p := NewPage(c, 5, 2, 2, []int{3, 4})

	require.NotNil(t, p.Next)
	require.NotNil(t, p.Previous)
	assert.Equal(t, "http://example.com/api/v1/polls?page=3&page_size=2&search=x", *p.Next)
	assert.Equal(t, "http://example.com/api/v1/polls?page_size=2&search=x", *p.Previous)

	last := NewPage[int](c, 4, 2, 2, nil)
	assert.Nil(t, last.Next)
	assert.NotNil(t, last.Results)
}

func TestError(t *testing.T) {
	c, w := context("/")
	Error(c, http.StatusNotFound, "", "poll not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Not found.", body.Message)
	assert.Equal(t, "poll not found", body.Details)
	assert.True(t, c.IsAborted())
}
