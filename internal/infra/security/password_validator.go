package security

import (
	"fmt"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const (
	defaultMinPasswordLength = 8
	defaultMinPasswordScore  = 2
)

// PasswordValidationError represents a single password policy violation.
type PasswordValidationError struct {
	Code    string
	Message string
}

// Error implements error for PasswordValidationError.
func (e *PasswordValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// PasswordValidator gates new passwords on length and estimated strength.
type PasswordValidator struct {
	minLength int
	minScore  int
}

// NewPasswordValidator constructs a validator with the supplied thresholds.
// The score is zxcvbn's 0-4 guessability estimate.
func NewPasswordValidator(minLength, minScore int) *PasswordValidator {
	if minLength <= 0 {
		minLength = defaultMinPasswordLength
	}
	if minScore < 0 {
		minScore = defaultMinPasswordScore
	}
	return &PasswordValidator{minLength: minLength, minScore: minScore}
}

// DefaultPasswordValidator returns a validator with the default thresholds.
func DefaultPasswordValidator() *PasswordValidator {
	return NewPasswordValidator(defaultMinPasswordLength, defaultMinPasswordScore)
}

// Validate returns the first policy violation for the candidate password.
func (v *PasswordValidator) Validate(password string, userInputs ...string) error {
	if v == nil {
		return fmt.Errorf("password validator not configured")
	}

	if len([]rune(password)) < v.minLength {
		return &PasswordValidationError{
			Code:    "min_length",
			Message: fmt.Sprintf("password must be at least %d characters long", v.minLength),
		}
	}

	if v.minScore > 0 {
		result := zxcvbn.PasswordStrength(password, userInputs)
		if result.Score < v.minScore {
			return &PasswordValidationError{
				Code:    "weak_password",
				Message: "password is too easy to guess",
			}
		}
	}

	return nil
}
