package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	testCases := []struct {
		code   Code
		value  int
		str    string
		status int
	}{
		{CodeSuccess, 200, "success", http.StatusOK},
		{CodeInternal, 1001, "internal error", http.StatusInternalServerError},
		{CodeInvalid, 1002, "invalid argument", http.StatusBadRequest},
		{CodeNotExist, 1003, "not exist", http.StatusNotFound},
		{CodeExist, 1004, "already exists", http.StatusConflict},
		{CodeUnavailable, 1005, "device unavailable", http.StatusServiceUnavailable},
		{Code(42), 42, "unknown code: 42", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			assert.Equal(t, tc.value, int(tc.code))
			assert.Equal(t, tc.str, tc.code.String())
			assert.Equal(t, tc.status, tc.code.HTTPStatus())
		})
	}
}

func TestErrorCode(t *testing.T) {
	e := New(CodeNotExist, "device: %s", "eth9")
	assert.Equal(t, CodeNotExist, e.Code())
	assert.Equal(t, "not exist: device: eth9", e.Message())
	assert.Equal(t, "error_code: 1003, message: not exist: device: eth9", e.Error())

	wrapped := fmt.Errorf("query: %w", e)
	assert.Equal(t, e, FromError(wrapped))

	plain := FromError(errors.New("boom"))
	assert.Equal(t, CodeInternal, plain.Code())
	assert.Equal(t, "internal error: boom", plain.Message())
}
