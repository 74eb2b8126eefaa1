package units

import "fmt"

// ErrorCode categorizes unit conversion errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedCategory indicates an unknown conversion category.
	ErrCodeUnsupportedCategory ErrorCode = "UNSUPPORTED_CATEGORY"

	// ErrCodeUnsupportedUnit indicates a unit that does not belong to
	// the requested category.
	ErrCodeUnsupportedUnit ErrorCode = "UNSUPPORTED_UNIT"
)

// Error is a coded unit-conversion error.
type Error struct {
	Code     ErrorCode
	Category string
	Unit     string
	Message  string
}

func (e *Error) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("%s: %s (category=%s, unit=%s)", e.Code, e.Message, e.Category, e.Unit)
	}
	return fmt.Sprintf("%s: %s (category=%s)", e.Code, e.Message, e.Category)
}

func newCategoryError(category string) *Error {
	return &Error{
		Code:     ErrCodeUnsupportedCategory,
		Category: category,
		Message:  "unsupported conversion category",
	}
}

func newUnitError(category, unit string) *Error {
	return &Error{
		Code:     ErrCodeUnsupportedUnit,
		Category: category,
		Unit:     unit,
		Message:  "unsupported unit for category",
	}
}
