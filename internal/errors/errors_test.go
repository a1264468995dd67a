package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewLoadError("workbook not found", nil),
			want: "[LOAD] workbook not found",
		},
		{
			name: "with cause",
			err:  NewLoadError("open workbook", fmt.Errorf("no such file")),
			want: "[LOAD] open workbook: no such file",
		},
		{
			name: "validation",
			err:  NewValidationError("top_n must be positive"),
			want: "[VALIDATION] top_n must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("write report CSV", cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad cell", nil).
		WithContext("sheet", "Sales Orders").
		WithContext("row", 42)

	assert.Equal(t, "Sales Orders", err.Context["sheet"])
	assert.Equal(t, 42, err.Context["row"])
}

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		err      *AppError
		wantType ErrorType
	}{
		{NewLoadError("m", nil), ErrTypeLoad},
		{NewParsingError("m", nil), ErrTypeParsing},
		{NewComputeError("m", nil), ErrTypeCompute},
		{NewStorageError("m", nil), ErrTypeStorage},
		{NewValidationError("m"), ErrTypeValidation},
		{NewRenderError("m", nil), ErrTypeRender},
		{NewConfigError("m", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantType, tt.err.Type)
	}
}
