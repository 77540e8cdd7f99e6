package authstate

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeOperationFailed = "AUTH_OPERATION_FAILED"
	TextCodeInvalidPayload  = "AUTH_INVALID_PAYLOAD"
)

// UnknownErrorMessage is stored when a failure carries no message from
// the user service (network down, timeout, malformed response).
const UnknownErrorMessage = "unknown error"

// ErrOperationFailed is the base error for any failed API call.
var ErrOperationFailed = goerrors.New(UnknownErrorMessage, goerrors.CategoryOperation).
	WithTextCode(TextCodeOperationFailed)

// ErrInvalidPayload is returned when client side validation rejects a payload.
var ErrInvalidPayload = goerrors.New("invalid payload", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidPayload).
	WithCode(goerrors.CodeBadRequest)

// operationFailed builds an ErrOperationFailed clone carrying message,
// the HTTP status (0 when none) and the underlying cause.
func operationFailed(operation string, status int, message string, source error) *goerrors.Error {
	if message == "" {
		message = UnknownErrorMessage
	}

	meta := map[string]any{}
	if operation != "" {
		meta["operation"] = operation
	}
	if status != 0 {
		meta["status"] = status
	}
	if source != nil {
		meta["error"] = source.Error()
	}

	clone := ErrOperationFailed.Clone()
	if clone == nil {
		clone = goerrors.New(message, goerrors.CategoryOperation).WithTextCode(TextCodeOperationFailed)
	}
	clone.Message = message
	if status != 0 {
		clone.Code = status
	}
	if source != nil {
		clone.Source = source
	}
	if len(meta) > 0 {
		clone.WithMetadata(meta)
	}

	return clone
}

func invalidPayload(operation string, err error) *goerrors.Error {
	clone := ErrInvalidPayload.Clone()
	if clone == nil {
		clone = goerrors.New("invalid payload", goerrors.CategoryValidation).WithTextCode(TextCodeInvalidPayload)
	}
	if err != nil {
		clone.Message = err.Error()
		clone.Source = err
	}
	clone.WithMetadata(map[string]any{"operation": operation})
	return clone
}

// MessageFromError extracts the message an operation stores in
// SessionState.Error. Errors not produced by this package, and rich
// errors without a message, map to UnknownErrorMessage.
func MessageFromError(err error) string {
	if err == nil {
		return ""
	}

	var richErr *goerrors.Error
	if errors.As(err, &richErr) && richErr != nil && richErr.Message != "" {
		if richErr.TextCode == TextCodeOperationFailed || richErr.TextCode == TextCodeInvalidPayload {
			return richErr.Message
		}
	}

	return UnknownErrorMessage
}

// IsOperationFailed reports whether err came from a failed API call.
func IsOperationFailed(err error) bool {
	return hasTextCode(err, TextCodeOperationFailed)
}

// IsInvalidPayload reports whether err came from payload validation.
func IsInvalidPayload(err error) bool {
	return hasTextCode(err, TextCodeInvalidPayload)
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if errors.As(err, &richErr) && richErr != nil {
		return richErr.TextCode == code
	}
	return false
}
