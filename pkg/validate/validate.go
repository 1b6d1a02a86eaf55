// Package validate defines the structured field-error type returned by every
// GoutHelper validator. The codes are part of the API contract and must not
// be renamed.
package validate

import (
	"fmt"
	"strings"
)

// Stable error codes.
const (
	CodeDialysisFieldMismatch  = "DIALYSIS_FIELD_MISMATCH"
	CodeDialysisRequiresStageV = "DIALYSIS_REQUIRES_STAGE_V"
	CodeStageDisagreesWithLabs = "STAGE_DISAGREES_WITH_LABS"
	CodeStageUndetermined      = "STAGE_UNDETERMINED"
	CodeMenopauseRequired      = "MENOPAUSE_REQUIRED"
	CodeAgeBelowMinimum        = "AGE_BELOW_MINIMUM"
	CodeCreatinineOutOfRange   = "CREATININE_OUT_OF_RANGE"
	CodeInvalidChoice          = "INVALID_CHOICE"
	CodeRequired               = "REQUIRED"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
)

// FieldError is a single validation failure against one field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}

// Errors is an ordered list of field errors. A nil or empty Errors means the
// payload validated cleanly.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Add appends a field error and returns the extended list.
func (e Errors) Add(field, code, message string) Errors {
	return append(e, FieldError{Field: field, Code: code, Message: message})
}

// Addf appends a field error with a formatted message.
func (e Errors) Addf(field, code, format string, args ...any) Errors {
	return e.Add(field, code, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any failure was recorded.
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// OrNil returns e as an error, or nil when the list is empty. Validators
// return this so callers can use the ordinary err != nil idiom.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors unwraps err into an Errors list when it is one.
func AsErrors(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	errs, ok := err.(Errors)
	return errs, ok
}
