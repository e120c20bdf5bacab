// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package petition

import "errors"

var (
	ErrAlreadySigned      = errors.New("petition already signed by this citizen")
	ErrSelfSignForbidden  = errors.New("authors cannot sign their own petition")
	ErrNotOpenForSigning  = errors.New("petition is not open for signing")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrUnauthorized       = errors.New("not authorized")
	ErrNotFound           = errors.New("petition not found")
	ErrUnidentifiedViewer = errors.New("citizen identity required")

	// ErrValidation matches every *ValidationError under errors.Is.
	ErrValidation = errors.New("validation error")
)

// ValidationError reports a submission field or parameter that failed a
// local check. It is detected before anything is persisted or sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Wire codes for the error taxonomy.
const (
	CodeValidation        = "validation_error"
	CodeAlreadySigned     = "already_signed"
	CodeSelfSignForbidden = "self_sign_forbidden"
	CodeNotOpenForSigning = "not_open_for_signing"
	CodeIllegalTransition = "illegal_transition"
	CodeUnauthorized      = "unauthorized"
	CodeNotFound          = "not_found"
	CodeUnidentified      = "unidentified"
	CodeInternal          = "internal_error"
)

var codes = []struct {
	code string
	err  error
}{
	{CodeValidation, ErrValidation},
	{CodeAlreadySigned, ErrAlreadySigned},
	{CodeSelfSignForbidden, ErrSelfSignForbidden},
	{CodeNotOpenForSigning, ErrNotOpenForSigning},
	{CodeIllegalTransition, ErrIllegalTransition},
	{CodeUnauthorized, ErrUnauthorized},
	{CodeNotFound, ErrNotFound},
	{CodeUnidentified, ErrUnidentifiedViewer},
}

// ErrorCode returns the stable wire code for err, or CodeInternal when err
// is not part of the petition error taxonomy.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// FromCode maps a wire code back to its sentinel. Unknown codes yield nil.
func FromCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
