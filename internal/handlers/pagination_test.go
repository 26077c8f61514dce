package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 10},
		{name: "in range", query: "?page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "limit below minimum clamps up", query: "?limit=1", wantPage: 1, wantLimit: 2},
		{name: "limit above maximum clamps down", query: "?limit=500", wantPage: 1, wantLimit: 50},
		{name: "page below one resets", query: "?page=-2", wantPage: 1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/clubs"+tt.query, nil)

			page, limit, ok := paginationParams(c)
			require.True(t, ok)
			require.Equal(t, tt.wantPage, page)
			require.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestPaginationParams_NotANumber(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/clubs?limit=lots", nil)

	_, _, ok := paginationParams(c)
	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
