package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/smithy-go"

	awsclient "fismcp/internal/aws"
	"fismcp/internal/paginate"
	"fismcp/internal/policy"
)

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Retryable bool   `json:"retryable"`
}

type ErrorEnvelope struct {
	Error   ErrorDetail `json:"error"`
	Details any         `json:"details,omitempty"`
}

func BuildErrorEnvelope(err error, details any) map[string]any {
	envelope := ErrorEnvelope{Error: classifyError(err), Details: details}
	out := map[string]any{"error": envelope.Error}
	if envelope.Details != nil {
		out["details"] = envelope.Details
	}
	return out
}

func classifyError(err error) ErrorDetail {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	switch {
	case errors.Is(err, policy.ErrWriteDisabled):
		return ErrorDetail{Code: "write_disabled", Message: msg, Hint: "Restart the server with --allow-writes to enable mutating tools.", Retryable: false}
	case errors.Is(err, awsclient.ErrClientNotInitialized):
		return ErrorDetail{Code: "client_not_initialized", Message: msg, Hint: "Check AWS credentials, profile and region, then reload the server.", Retryable: false}
	case errors.Is(err, paginate.ErrLimitExceeded):
		return ErrorDetail{Code: "pagination_limit", Message: msg, Hint: "Narrow the request or raise pagination.max_pages.", Retryable: false}
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorDetail{Code: "timeout", Message: msg, Hint: "Increase the tool timeout or check AWS API latency.", Retryable: true}
	case errors.Is(err, context.Canceled):
		return ErrorDetail{Code: "canceled", Message: msg, Hint: "Request was canceled before completion.", Retryable: true}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "UnauthorizedException", "UnauthorizedOperation", "ExpiredTokenException":
			return ErrorDetail{Code: "forbidden", Message: msg, Hint: "Check AWS credentials and IAM policies.", Retryable: false}
		case "Throttling", "ThrottlingException", "TooManyRequestsException", "ServiceQuotaExceededException", "LimitExceededException":
			return ErrorDetail{Code: "rate_limited", Message: msg, Hint: "Retry with backoff.", Retryable: true}
		case "ResourceNotFoundException", "NotFoundException", "ResourceNotDiscoveredException":
			return ErrorDetail{Code: "not_found", Message: msg, Hint: "Verify resource identifiers and region.", Retryable: false}
		case "ValidationException", "ValidationError", "InvalidParameterException", "InvalidParameterValueException",
			"InvalidLimitException", "InvalidTimeRangeException", "InvalidNextTokenException":
			return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix request parameters or schema.", Retryable: false}
		case "ConflictException":
			return ErrorDetail{Code: "conflict", Message: msg, Hint: "Resource update conflict; retry with the latest state.", Retryable: true}
		default:
			return ErrorDetail{Code: "upstream_error", Message: msg, Hint: "AWS API error; verify inputs and retry.", Retryable: apiErr.ErrorFault() == smithy.FaultServer}
		}
	}

	if isInvalidRequestMessage(msg) {
		return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix request parameters or schema.", Retryable: false}
	}

	return ErrorDetail{Code: "internal", Message: msg, Hint: "Check server logs for details.", Retryable: false}
}

func isInvalidRequestMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "required") || strings.Contains(lower, "invalid") || strings.Contains(lower, "missing")
}
