package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a required submission field missing or malformed.
	// Raised client-side before any network call is attempted.
	ErrValidation = errors.New("validation error")
	// ErrUploadFailed marks an asset batch transmission failure after the
	// project was already created. The created project persists.
	ErrUploadFailed = errors.New("upload failed")
	// ErrAnalysisFailed marks a failed analysis request. The project remains
	// in its pre-analysis state and the user may retry.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrCaptureUnavailable marks a camera permission or hardware failure.
	ErrCaptureUnavailable = errors.New("capture unavailable")
	// ErrDecisionFailed marks a failed approve/reject call. Queue state and
	// the draft comment are left untouched for retry.
	ErrDecisionFailed = errors.New("decision failed")
	// ErrRegistry marks a transport-level registry failure outside the
	// taxonomy above.
	ErrRegistry = errors.New("registry error")
	// ErrNotFound marks a registry lookup for an unknown project.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration marks unusable client configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrRegistry
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRetryable reports whether a failure leaves state the user can retry from:
// a failed upload, analysis, or decision. Validation and configuration errors
// need user correction first.
func IsRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrUploadFailed),
		errors.Is(err, ErrAnalysisFailed),
		errors.Is(err, ErrDecisionFailed):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
