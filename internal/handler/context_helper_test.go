package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ideas?"+rawQuery, nil)
	return c
}

func TestParseIdeaFilter(t *testing.T) {
	filter, err := parseIdeaFilter(queryContext("search=+grid+&category=ENERGY&from=2024-01-01&to=2024-01-31&page=2&page_size=5"))
	require.NoError(t, err)
	assert.Equal(t, "grid", filter.Search)
	assert.Equal(t, "ENERGY", filter.Category)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *filter.From)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), *filter.To, "a bare date includes the whole day")
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 5, filter.PageSize)

	filter, err = parseIdeaFilter(queryContext("to=2024-01-31T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC), *filter.To)
	assert.Nil(t, filter.From)
}

func TestParseIdeaFilterRejectsBadInput(t *testing.T) {
	_, err := parseIdeaFilter(queryContext("from=31/01/2024"))
	assert.Error(t, err)

	_, err = parseIdeaFilter(queryContext("from=2024-02-01&to=2024-01-01"))
	assert.Error(t, err)
}

func TestParseIDParam(t *testing.T) {
	c := queryContext("")
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, err := parseIDParam(c)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, err = parseIDParam(c)
	assert.Error(t, err)
}
