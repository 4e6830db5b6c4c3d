package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := New(ErrInvalidFilter, http.StatusBadRequest, "min exceeds max")
	if !errors.Is(err, ErrInvalidFilter) {
		t.Error("AppError should unwrap to its sentinel")
	}
	if err.Error() == "" {
		t.Error("empty error message")
	}
}

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalidFilter, http.StatusBadRequest},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrProductNotFound, http.StatusNotFound},
		{ErrNotReady, http.StatusServiceUnavailable},
		{ErrTimeout, http.StatusServiceUnavailable},
		{errors.New("mystery"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatusCode(tc.err); got != tc.want {
			t.Errorf("HTTPStatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestHTTPStatusCodeWrapped(t *testing.T) {
	wrapped := fmt.Errorf("checking filters: %w", ErrInvalidFilter)
	if got := HTTPStatusCode(wrapped); got != http.StatusBadRequest {
		t.Errorf("HTTPStatusCode(wrapped) = %d, want 400", got)
	}
}
