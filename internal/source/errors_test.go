package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&DecodeError{Cause: errUnsuccessful}, ReasonUnsuccessful},
		{fmt.Errorf("summary: %w", &DecodeError{Cause: errUnsuccessful}), ReasonUnsuccessful},
		{&HTTPStatusError{Code: 503, StatusText: "Service Unavailable"}, ReasonHTTPStatus},
		{&NetworkError{Cause: context.DeadlineExceeded}, ReasonNetwork},
		{&DecodeError{Cause: errors.New("unexpected EOF")}, ReasonDecode},
		{errors.New("boom"), ReasonOther},
	}
	for _, tt := range tests {
		if got := FailureReason(tt.err); got != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.err, tt.want, got)
		}
	}
}
