package httpx

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without internal err",
			err:  NewAppError(http.StatusBadRequest, CodeParamMissing, "printer_name is required", nil),
			want: "code=2001, message=printer_name is required",
		},
		{
			name: "error with internal err",
			err:  NewAppError(http.StatusInternalServerError, CodeDatabaseError, "database error", errors.New("connection refused")),
			want: "code=5002, message=database error, err=connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrUnauthorized(t *testing.T) {
	err := ErrUnauthorized("")
	if err.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusUnauthorized, err.HTTPStatus)
	}
	if err.Code != CodeUnauthorized {
		t.Errorf("Expected code %d, got %d", CodeUnauthorized, err.Code)
	}
	if err.Message != "unauthorized" {
		t.Errorf("Expected message 'unauthorized', got '%s'", err.Message)
	}
}

func TestErrDuplicate(t *testing.T) {
	err := ErrDuplicate("").WithData(map[string]int{"job_id": 42})
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Code != CodeDuplicate {
		t.Errorf("Expected code %d, got %d", CodeDuplicate, err.Code)
	}
	if err.Data == nil {
		t.Error("Expected data to carry the original job id")
	}
}

func TestErrParamMissing(t *testing.T) {
	err := ErrParamMissing("field 'printer_name' is required")
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Code != CodeParamMissing {
		t.Errorf("Expected code %d, got %d", CodeParamMissing, err.Code)
	}
	if err.Message != "field 'printer_name' is required" {
		t.Errorf("Expected custom message, got '%s'", err.Message)
	}
}
