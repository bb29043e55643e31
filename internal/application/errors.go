package application

import (
	"errors"
	"fmt"

	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("please verify your email before logging in")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("user is already verified")
	ErrInvalidOTP         = errors.New("invalid verification code")
	ErrOTPExpired         = errors.New("verification code has expired")
	ErrInvalidSession     = errors.New("session is no longer valid")

	ErrInvalidAmount       = errors.New("valid amount is required")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientSavings = errors.New("insufficient savings in goal")
	ErrGoalNotFound        = errors.New("savings goal not found")
	ErrGoalRequired        = errors.New("savings goal is required")
	ErrPlanNotFound        = errors.New("savings plan not found")

	ErrNotificationNotFound = errors.New("notification not found")

	ErrSearchUnavailable = errors.New("transaction search is not configured")
	ErrExportUnavailable = errors.New("statement export is not configured")
)

// ValidationError reports a rejected input field that binding tags cannot express.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound)
}
