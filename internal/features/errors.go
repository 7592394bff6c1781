package features

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationInFlight rejects a second generation while one is pending.
	ErrGenerationInFlight = errors.New("a generation is already in progress")

	ErrNotFound               = errors.New("not found")
	ErrExpenseNotFound        = fmt.Errorf("expense %w", ErrNotFound)
	ErrInvestmentNotFound     = fmt.Errorf("investment %w", ErrNotFound)
	ErrGoalNotFound           = fmt.Errorf("goal %w", ErrNotFound)
	ErrSubTaskIndexOutOfRange = errors.New("sub-task index out of range")
)

// InputValidationError is raised before any model call. Message is shown to the user as is.
type InputValidationError struct {
	Field   string
	Message string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *InputValidationError {
	return &InputValidationError{Field: field, Message: message}
}
