package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_NilError(t *testing.T) {
	c, w := newTestContext()

	handled := HandleError(c, nil)
	assert.False(t, handled)
	assert.Empty(t, w.Body.String())
}

func TestHandleError_AppError(t *testing.T) {
	c, w := newTestContext()

	handled := HandleError(c, errors.ErrReservationNotFound)
	assert.True(t, handled)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, errors.ErrReservationNotFound.Code, resp.Code)
}

func TestHandleError_GenericError(t *testing.T) {
	c, w := newTestContext()

	handled := HandleError(c, assert.AnError)
	assert.True(t, handled)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleErrorWithMessage_HidesDetail(t *testing.T) {
	c, w := newTestContext()

	handled := HandleErrorWithMessage(c, assert.AnError, "操作失败")
	assert.True(t, handled)
	resp := decodeResponse(t, w)
	assert.Equal(t, "操作失败", resp.Message)
}

func TestMustSucceed_Success(t *testing.T) {
	c, w := newTestContext()

	MustSucceed(c, nil, gin.H{"id": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, 0, resp.Code)
}

func TestMustSucceed_Error(t *testing.T) {
	c, w := newTestContext()

	MustSucceed(c, errors.ErrInvalidAmount, nil)
	resp := decodeResponse(t, w)
	assert.Equal(t, errors.ErrInvalidAmount.Code, resp.Code)
}

func TestMustSucceedPage(t *testing.T) {
	c, w := newTestContext()

	MustSucceedPage(c, nil, []string{"a", "b"}, 100, 1, 10)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, 0, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 100, data["total"])
}

func TestRequireStaffID(t *testing.T) {
	c, w := newTestContext()
	c.Set("staff_id", int64(7))

	id, ok := RequireStaffID(c)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Empty(t, w.Body.String())
}

func TestRequireStaffID_Missing(t *testing.T) {
	c, w := newTestContext()

	_, ok := RequireStaffID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseParamID(t *testing.T) {
	c, _ := newTestContext()
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := ParseID(c, "预订")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestParseParamID_Invalid(t *testing.T) {
	c, w := newTestContext()
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok := ParseID(c, "预订")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"2026-03-10", true},
		{"2026-03-10 14:00:00", true},
		{"2026-03-10T14:00:00Z", true},
		{"10/03/2026", false},
		{"", false},
	}
	for _, tt := range tests {
		_, err := ParseDateTime(tt.value)
		if tt.valid {
			assert.NoError(t, err, tt.value)
		} else {
			assert.Error(t, err, tt.value)
		}
	}
}

func TestParseDateTime_DateOnlyMidnight(t *testing.T) {
	got, err := ParseDateTime("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local), got)
}

func TestParsePagination_Defaults(t *testing.T) {
	c, _ := newTestContext()

	page, pageSize := ParsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)
}

func TestParsePagination_CapsPageSize(t *testing.T) {
	c, _ := newTestContext()
	c.Request = httptest.NewRequest(http.MethodGet, "/test?page=3&page_size=500", nil)

	page, pageSize := ParsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, pageSize)
}
