package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"todoapp/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		reason  string
		message string
	}{
		{
			name:    "InvalidPageParam",
			failure: failure.InvalidPageParam,
			code:    http.StatusBadRequest,
			reason:  failure.ReasonInvalidParameter,
			message: "page must be a positive integer",
		},
		{
			name:    "InvalidLimitParam",
			failure: failure.InvalidLimitParam,
			code:    http.StatusBadRequest,
			reason:  failure.ReasonInvalidParameter,
			message: "per_page must be a positive integer",
		},
		{
			name:    "EmptyUpdate",
			failure: failure.EmptyUpdate,
			code:    http.StatusBadRequest,
			reason:  failure.ReasonValidation,
			message: "update request cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Reason != tt.reason {
				t.Errorf("expected reason to be %s, got %s", tt.reason, tt.failure.Reason)
			}
			if tt.failure.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, tt.failure.Message)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "with error",
			input:    errors.New("validation failed"),
			expected: &failure.Failure{Code: http.StatusBadRequest, Reason: failure.ReasonValidation, Message: "validation failed"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
			} else {
				f, ok := result.(*failure.Failure)
				if !ok {
					t.Errorf("expected result to be *failure.Failure, got %T", result)
				} else {
					expectedF := tt.expected.(*failure.Failure)
					if f.Code != expectedF.Code || f.Message != expectedF.Message || f.Reason != expectedF.Reason {
						t.Errorf("expected %+v, got %+v", expectedF, f)
					}
				}
			}
		})
	}
}

func TestValidation(t *testing.T) {
	details := map[string]string{"title": "title cannot be empty"}
	result := failure.Validation("title cannot be empty", details)

	f, ok := result.(*failure.Failure)
	if !ok {
		t.Fatalf("expected result to be *failure.Failure, got %T", result)
	}

	if f.Code != http.StatusBadRequest || f.Reason != failure.ReasonValidation {
		t.Errorf("unexpected failure %+v", f)
	}

	if f.Details["title"] != "title cannot be empty" {
		t.Errorf("expected title detail, got %v", f.Details)
	}
}

func TestInternalError(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "with error",
			input:    errors.New("database connection failed"),
			expected: &failure.Failure{Code: http.StatusInternalServerError, Message: "database connection failed"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.InternalError(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
			} else {
				f, ok := result.(*failure.Failure)
				if !ok {
					t.Errorf("expected result to be *failure.Failure, got %T", result)
				} else {
					expectedF := tt.expected.(*failure.Failure)
					if f.Code != expectedF.Code || f.Message != expectedF.Message {
						t.Errorf("expected %+v, got %+v", expectedF, f)
					}
				}
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	result := failure.NotFound("Todo with id 7 not found")

	f, ok := result.(*failure.Failure)
	if !ok {
		t.Errorf("expected result to be *failure.Failure, got %T", result)
	} else {
		if f.Code != http.StatusNotFound {
			t.Errorf("expected code to be %d, got %d", http.StatusNotFound, f.Code)
		}
		if f.Reason != failure.ReasonNotFound {
			t.Errorf("expected reason to be %s, got %s", failure.ReasonNotFound, f.Reason)
		}
		if f.Message != "Todo with id 7 not found" {
			t.Errorf("expected message to be 'Todo with id 7 not found', got %s", f.Message)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	result := failure.MethodNotAllowed("method not allowed")

	if failure.GetCode(result) != http.StatusMethodNotAllowed {
		t.Errorf("expected code to be %d, got %d", http.StatusMethodNotAllowed, failure.GetCode(result))
	}
	if failure.GetReason(result) != failure.ReasonMethodNotAllowed {
		t.Errorf("expected reason to be %s, got %s", failure.ReasonMethodNotAllowed, failure.GetReason(result))
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("outer: %w", failure.BadRequestFromString("test")),
			expected: http.StatusBadRequest,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestGetReasonAndDetails(t *testing.T) {
	if got := failure.GetReason(errors.New("boom")); got != failure.ReasonInternal {
		t.Errorf("expected %s, got %s", failure.ReasonInternal, got)
	}

	if got := failure.GetReason(failure.InvalidParameter("bad sort")); got != failure.ReasonInvalidParameter {
		t.Errorf("expected %s, got %s", failure.ReasonInvalidParameter, got)
	}

	if got := failure.GetDetails(errors.New("boom")); got != nil {
		t.Errorf("expected nil details, got %v", got)
	}

	wrapped := fmt.Errorf("wrap: %w", failure.Validation("x", map[string]string{"a": "b"}))
	if got := failure.GetDetails(wrapped); got["a"] != "b" {
		t.Errorf("expected details to survive wrapping, got %v", got)
	}
}
