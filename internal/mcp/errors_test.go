package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"

	awsclient "fismcp/internal/aws"
	"fismcp/internal/paginate"
	"fismcp/internal/policy"
)

func TestBuildErrorEnvelopeTimeout(t *testing.T) {
	envelope := BuildErrorEnvelope(context.DeadlineExceeded, nil)
	errMap := envelope["error"].(ErrorDetail)
	if errMap.Code != "timeout" {
		t.Fatalf("expected timeout code, got %s", errMap.Code)
	}
	if !errMap.Retryable {
		t.Fatalf("expected retryable timeout")
	}
}

func TestBuildErrorEnvelopeCanceled(t *testing.T) {
	envelope := BuildErrorEnvelope(context.Canceled, nil)
	errMap := envelope["error"].(ErrorDetail)
	if errMap.Code != "canceled" {
		t.Fatalf("expected canceled code, got %s", errMap.Code)
	}
}

func TestBuildErrorEnvelopeDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"write disabled", &policy.WriteDisabledError{Capability: policy.CapabilityCreateTemplate}, "write_disabled"},
		{"client not initialized", &awsclient.ClientNotInitializedError{Service: "FIS"}, "client_not_initialized"},
		{"pagination limit", fmt.Errorf("%w: more than 3 pages returned", paginate.ErrLimitExceeded), "pagination_limit"},
		{"missing argument", errors.New("id is required"), "invalid_request"},
		{"unknown", errors.New("boom"), "internal"},
	}
	for _, tc := range cases {
		envelope := BuildErrorEnvelope(tc.err, nil)
		errMap := envelope["error"].(ErrorDetail)
		if errMap.Code != tc.code {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.code, errMap.Code)
		}
		if errMap.Message != tc.err.Error() {
			t.Fatalf("%s: message must be the error text, got %q", tc.name, errMap.Message)
		}
	}
}

func TestBuildErrorEnvelopeAWSCodes(t *testing.T) {
	cases := map[string]string{
		"AccessDeniedException":          "forbidden",
		"ThrottlingException":            "rate_limited",
		"ResourceNotFoundException":      "not_found",
		"ResourceNotDiscoveredException": "not_found",
		"ValidationException":            "invalid_request",
		"ValidationError":                "invalid_request",
		"ConflictException":              "conflict",
		"InternalServerException":        "upstream_error",
	}
	for code, want := range cases {
		err := &smithy.GenericAPIError{Code: code, Message: "msg"}
		wrapped := &smithy.OperationError{ServiceID: "fis", OperationName: "GetExperiment", Err: err}
		errMap := BuildErrorEnvelope(wrapped, nil)["error"].(ErrorDetail)
		if errMap.Code != want {
			t.Fatalf("%s: expected %s, got %s", code, want, errMap.Code)
		}
	}
}

func TestBuildErrorEnvelopeServerFaultRetryable(t *testing.T) {
	err := &smithy.GenericAPIError{Code: "InternalServerException", Message: "oops", Fault: smithy.FaultServer}
	errMap := BuildErrorEnvelope(err, nil)["error"].(ErrorDetail)
	if !errMap.Retryable {
		t.Fatalf("server faults should be retryable")
	}
}

func TestBuildErrorEnvelopeDetails(t *testing.T) {
	envelope := BuildErrorEnvelope(errors.New("boom"), map[string]any{"tool": "x"})
	if envelope["details"] == nil {
		t.Fatalf("expected details")
	}
	if _, ok := BuildErrorEnvelope(errors.New("boom"), nil)["details"]; ok {
		t.Fatalf("details should be omitted when nil")
	}
}
