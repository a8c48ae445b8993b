package response

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) dto.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err)

	require.Equal(t, http.StatusOK, w.Code)
	var res dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"not found", service.ErrItemNotFound, NotFound, service.ErrItemNotFound.Error()},
		{"wrapped", fmt.Errorf("load list: %w", service.ErrListForbidden), Forbidden, service.ErrListForbidden.Error()},
		{"bad request", service.ErrRatingInvalid, BadRequest, service.ErrRatingInvalid.Error()},
		{"internal hides detail", errors.New("dial tcp 10.0.0.1:3306: refused"), InternalServerError, service.UnExpectedError.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := render(t, tt.err)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.msg, res.Message)
			assert.Nil(t, res.Data)
		})
	}
}

func TestBindErrors(t *testing.T) {
	type body struct {
		Score int `json:"score" binding:"required,min=1"`
	}
	gin.SetMode(gin.TestMode)

	for _, raw := range []string{`{"score":0}`, `{"score":"x"}`, `{`} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		c.Request.Header.Set("Content-Type", "application/json")

		var b body
		err := c.ShouldBindJSON(&b)
		require.Error(t, err, raw)
		Error(c, err)

		var res dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, BadRequest, res.Code, raw)
	}
}
