// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so callers can decide whether an
// error is chunk-local (recorded and skipped) or structural (propagated).
type ErrorKind string

const (
	// KindInvalidConfiguration covers bad chunk sizes, bad flag values, and
	// requests rejected by the backend as malformed.
	KindInvalidConfiguration ErrorKind = "invalid_configuration"

	// KindAuthentication covers missing or rejected credentials.
	KindAuthentication ErrorKind = "authentication"

	// KindRateLimit covers backend throttling after retries are exhausted.
	KindRateLimit ErrorKind = "rate_limit"

	// KindTruncation means the response was cut off by the output token
	// budget instead of stopping naturally.
	KindTruncation ErrorKind = "truncation"

	// KindUnsupportedMode means vision conversion was requested on a model
	// that cannot accept images.
	KindUnsupportedMode ErrorKind = "unsupported_mode"

	// KindTransientNetwork covers connectivity failures, timeouts, and
	// backend 5xx responses.
	KindTransientNetwork ErrorKind = "transient_network"

	// KindExtraction covers unreadable or corrupt PDFs.
	KindExtraction ErrorKind = "extraction"

	// KindUnknownProvider means the provider name did not resolve to a
	// backend. Raised before any network activity.
	KindUnknownProvider ErrorKind = "unknown_provider"
)

// Error is a classified pipeline error. MaxTokens is set only for
// truncation errors and carries the budget that was exhausted.
type Error struct {
	Kind      ErrorKind
	Message   string
	MaxTokens int
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error wrapping an optional cause.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Errorf builds a classified error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TruncationError reports an output cut short by the token budget, with a
// hint to raise it. A truncated document reads like a complete one, so this
// is always surfaced instead of returning the partial text.
func TruncationError(maxTokens int) *Error {
	return &Error{
		Kind:      KindTruncation,
		Message:   fmt.Sprintf("response truncated at max_tokens=%d; increase the output token budget and retry", maxTokens),
		MaxTokens: maxTokens,
	}
}

// IsKind reports whether err is (or wraps) a classified error of the given
// kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
