package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	router := setupTestRouter()
	router.Use(BodyLimit(8))
	router.POST("/echo", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, string(data))
	})

	tests := []struct {
		name       string
		body       string
		chunked    bool
		wantStatus int
	}{
		{name: "within limit", body: "short", wantStatus: http.StatusOK},
		{name: "declared too large", body: "much too long", wantStatus: http.StatusRequestEntityTooLarge},
		{name: "undeclared too large", body: "much too long", chunked: true, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body))
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
