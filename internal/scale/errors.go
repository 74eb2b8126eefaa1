package scale

import (
	"errors"
	"fmt"
)

// ScaleError represents an error detected while scaling a recipe.
//
// Scale errors include:
//   - Invalid volume: base or target batch size is not positive
//   - Unsupported method: scaling method tag not recognized
//   - Missing step size: a step ingredient has no usable step size
//
// ScaleError includes structured fields so a caller can point the user
// at the exact ingredient line to fix.
type ScaleError struct {
	// Code identifies the error category.
	Code ScaleErrorCode

	// Message is a human-readable description.
	Message string

	// RecipeIngredientID identifies the offending line, when the error
	// concerns a single ingredient.
	RecipeIngredientID int64

	// Method is the scaling method tag involved, if any.
	Method string
}

// ScaleErrorCode categorizes scale errors.
type ScaleErrorCode string

const (
	// ErrCodeInvalidVolume indicates a non-positive base or target
	// batch size.
	ErrCodeInvalidVolume ScaleErrorCode = "INVALID_VOLUME"

	// ErrCodeUnsupportedMethod indicates an unrecognized scaling
	// method tag. Unknown tags are never silently defaulted.
	ErrCodeUnsupportedMethod ScaleErrorCode = "UNSUPPORTED_METHOD"

	// ErrCodeMissingStepSize indicates a step ingredient without a
	// positive step size.
	ErrCodeMissingStepSize ScaleErrorCode = "MISSING_STEP_SIZE"
)

// Error implements the error interface.
func (e *ScaleError) Error() string {
	if e.RecipeIngredientID != 0 {
		return fmt.Sprintf("%s: %s (recipeIngredientID=%d)", e.Code, e.Message, e.RecipeIngredientID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidVolume reports whether err is an invalid-volume error.
// Uses errors.As to handle wrapped errors.
func IsInvalidVolume(err error) bool {
	var se *ScaleError
	return errors.As(err, &se) && se.Code == ErrCodeInvalidVolume
}

// IsUnsupportedMethod reports whether err is an unsupported-method error.
func IsUnsupportedMethod(err error) bool {
	var se *ScaleError
	return errors.As(err, &se) && se.Code == ErrCodeUnsupportedMethod
}

// IsMissingStepSize reports whether err is a missing-step-size error.
func IsMissingStepSize(err error) bool {
	var se *ScaleError
	return errors.As(err, &se) && se.Code == ErrCodeMissingStepSize
}

// NewInvalidVolumeError creates a ScaleError for a non-positive batch size.
func NewInvalidVolumeError(which string, volume float64) *ScaleError {
	return &ScaleError{
		Code:    ErrCodeInvalidVolume,
		Message: fmt.Sprintf("%s batch size must be positive, got %g", which, volume),
	}
}

// NewUnsupportedMethodError creates a ScaleError for an unknown method tag.
func NewUnsupportedMethodError(ingredientID int64, method string) *ScaleError {
	return &ScaleError{
		Code:               ErrCodeUnsupportedMethod,
		Message:            fmt.Sprintf("unknown scaling method %q", method),
		RecipeIngredientID: ingredientID,
		Method:             method,
	}
}

// NewMissingStepSizeError creates a ScaleError for a step ingredient
// without a usable step size.
func NewMissingStepSizeError(ingredientID int64, detail string) *ScaleError {
	return &ScaleError{
		Code:               ErrCodeMissingStepSize,
		Message:            detail,
		RecipeIngredientID: ingredientID,
		Method:             "step",
	}
}
