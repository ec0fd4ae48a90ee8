// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// New creates a RodentError for the given code. details is free text that
// complements the registered message.
func New(code ErrorCode, details string) *RodentError {
	def, ok := errorDefinitions[code]
	if !ok {
		return &RodentError{
			Code:       code,
			Domain:     DomainMisc,
			Message:    "Unknown error",
			Details:    details,
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	return &RodentError{
		Code:       code,
		Domain:     def.domain,
		Message:    def.message,
		Details:    details,
		HTTPStatus: def.httpStatus,
	}
}

// Wrap converts err into a RodentError with the given code. A wrapped
// RodentError keeps its metadata and records the previous code.
func Wrap(err error, code ErrorCode) *RodentError {
	if err == nil {
		return New(code, "")
	}

	var re *RodentError
	if stderrors.As(err, &re) {
		wrapped := New(code, re.Details)
		if wrapped.Details == "" {
			wrapped.Details = re.Message
		}
		for k, v := range re.Metadata {
			wrapped = wrapped.WithMetadata(k, v)
		}
		return wrapped.WithMetadata("cause_code", fmt.Sprintf("%d", re.Code))
	}

	return New(code, err.Error())
}

// WithMetadata attaches a key/value pair and returns the same error for chaining.
func (e *RodentError) WithMetadata(key, value string) *RodentError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

func (e *RodentError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s-%d] %s: %s", e.Domain, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s-%d] %s", e.Domain, e.Code, e.Message)
}

// IsRodentError reports whether err carries the given code anywhere in its chain.
func IsRodentError(err error, code ErrorCode) bool {
	var re *RodentError
	if stderrors.As(err, &re) {
		return re.Code == code
	}
	return false
}
