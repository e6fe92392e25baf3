package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/items?"+query, nil)
	return c
}

func TestGetListParamsDefaults(t *testing.T) {
	params, err := GetListParams(contextWithQuery(""))
	require.NoError(t, err)
	assert.Equal(t, ListParams{Skip: 0, Limit: DefaultListLimit}, params)
}

func TestGetListParamsBounds(t *testing.T) {
	tests := []struct {
		query string
		valid bool
	}{
		{"skip=10&limit=500", true},
		{"limit=1", true},
		{"limit=501", false},
		{"limit=0", false},
		{"skip=-1", false},
		{"limit=ten", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, err := GetListParams(contextWithQuery(tt.query))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPagination)
			}
		})
	}
}

func TestListResponseSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ListResponse(c, NewListResult([]string{"a"}, 42, ListParams{Skip: 5, Limit: 1}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "5", w.Header().Get("X-Skip"))
	assert.Equal(t, "1", w.Header().Get("X-Limit"))
	assert.Contains(t, w.Body.String(), `"data":["a"]`)
}
