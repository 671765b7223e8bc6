package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"day-planner/internal/config"
	"day-planner/internal/errors"
	"day-planner/internal/validation"
)

// Exit codes returned by the planner binary.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitConfig   = 4
)

// ErrorHandler turns command errors into messages and exit codes
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the user-facing message with the failed operation
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if msg, ok := eh.userMessage(err); ok {
		return fmt.Errorf("failed to %s: %s", operation, msg)
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple returns the user-facing message without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if msg, ok := eh.userMessage(err); ok {
		return stderrors.New(msg)
	}
	return err
}

func (eh *ErrorHandler) userMessage(err error) (string, bool) {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) && !errors.IsAppError(err) {
		return ve.GetUserFriendlyMessage(), true
	}
	if errors.IsAppError(err) {
		msg := errors.GetUserMessage(err)
		if fields := eh.Fields(err); len(fields) > 0 && !strings.Contains(msg, "\n") {
			msg = fmt.Sprintf("%s (fields: %s)", msg, strings.Join(fields, ", "))
		}
		return msg, true
	}
	return "", false
}

// Fields lists the input fields a validation failure names.
func (eh *ErrorHandler) Fields(err error) []string {
	if appErr, ok := errors.AsAppError(err); ok {
		if v, ok := appErr.GetContext("fields"); ok {
			if fields, ok := v.([]string); ok {
				return fields
			}
		}
		if v, ok := appErr.GetContext("field"); ok {
			if field, ok := v.(string); ok {
				return []string{field}
			}
		}
		return nil
	}

	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		fields := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			fields = append(fields, fe.Field)
		}
		return fields
	}
	return nil
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation) ||
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase) ||
		errors.IsErrorType(err, errors.ErrorTypeTimeout)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

// ExitCode picks the process exit status for err.
func (eh *ErrorHandler) ExitCode(err error) int {
	var cfgErr *config.ConfigError
	switch {
	case err == nil:
		return ExitOK
	case stderrors.As(err, &cfgErr):
		return ExitConfig
	case eh.IsValidationError(err):
		return ExitUsage
	case eh.IsNotFoundError(err):
		return ExitNotFound
	default:
		return ExitFailure
	}
}
