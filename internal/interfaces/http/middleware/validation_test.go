package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/interfaces/http/dto"
)

type lineInput struct {
	ItemCode string          `json:"item_code" binding:"required"`
	Qty      decimal.Decimal `json:"qty" binding:"required,gt=0"`
}

type orderInput struct {
	Email string      `json:"email" binding:"required,email"`
	Items []lineInput `json:"items" binding:"required,min=1,dive"`
}

func postJSON(r *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	r := gin.New()
	r.POST("/test", func(c *gin.Context) {
		var in orderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("valid input", func(t *testing.T) {
		w, _ := postJSON(r, `{"email":"a@b.co","items":[{"item_code":"W","qty":"2.5"}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("lists invalid fields by json path", func(t *testing.T) {
		w, resp := postJSON(r, `{"email":"nope","items":[{"item_code":"","qty":"0"}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "This field is required", fields["items[0].item_code"])
		assert.Contains(t, fields, "items[0].qty")
	})

	t.Run("negative decimal fails gt", func(t *testing.T) {
		_, resp := postJSON(r, `{"email":"a@b.co","items":[{"item_code":"W","qty":"-1"}]}`)
		require.NotNil(t, resp.Error)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "Must be greater than 0", resp.Error.Details[0].Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		w, resp := postJSON(r, `{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "Invalid request body", resp.Error.Message)
		assert.Empty(t, resp.Error.Details)
	})
}
