package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cartify_backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "not found", err: fmt.Errorf("product not found: %w", apperror.ErrNotFound), wantStatus: http.StatusNotFound, wantBody: "product not found: not found"},
		{name: "conflict", err: apperror.ErrConflict, wantStatus: http.StatusConflict, wantBody: "conflict"},
		{name: "bad request", err: apperror.ErrBadRequest, wantStatus: http.StatusBadRequest, wantBody: "bad request"},
		{name: "unauthorized", err: apperror.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantBody: "unauthorized"},
		{name: "forbidden", err: apperror.ErrForbidden, wantStatus: http.StatusForbidden, wantBody: "forbidden"},
		{name: "infra error is hidden", err: errors.New("dial tcp: refused"), wantStatus: http.StatusInternalServerError, wantBody: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Error)
		})
	}
}
