// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"

	urlutil "github.com/law-makers/pagesift/internal/utils/url"
	"github.com/law-makers/pagesift/pkg/models"
)

// Common engine errors
var (
	ErrInvalidURL = errors.New("invalid URL")
	ErrFetch      = errors.New("static fetch failed")
	ErrRender     = errors.New("dynamic render failed")
)

// PhaseError is a failure of one pipeline phase. It never aborts a scrape;
// it is reported in the result instead.
type PhaseError struct {
	Phase      models.Phase
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Message)
}

// Unwrap returns the underlying error
func (e *PhaseError) Unwrap() error {
	return e.Underlying
}

// Is matches another PhaseError of the same phase, or the phase sentinel
func (e *PhaseError) Is(target error) bool {
	if t, ok := target.(*PhaseError); ok {
		return e.Phase == t.Phase
	}
	switch e.Phase {
	case models.PhaseFetch:
		return target == ErrFetch
	case models.PhaseRender:
		return target == ErrRender
	}
	return false
}

// ToExtractionError converts the error into its result form
func (e *PhaseError) ToExtractionError() models.ExtractionError {
	return models.ExtractionError{Message: e.Message, Phase: e.Phase}
}

// NewFetchError wraps a static fetch failure
func NewFetchError(err error) *PhaseError {
	return &PhaseError{Phase: models.PhaseFetch, Message: err.Error(), Underlying: err}
}

// NewRenderError wraps a dynamic render failure
func NewRenderError(err error) *PhaseError {
	return &PhaseError{Phase: models.PhaseRender, Message: err.Error(), Underlying: err}
}

// CheckURL rejects anything that is not an absolute http(s) URL. The error
// matches ErrInvalidURL.
func CheckURL(raw string) error {
	if err := urlutil.ValidateURL(raw); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidURL, raw, err)
	}
	return nil
}
