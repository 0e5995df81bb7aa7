package evaluation

import (
	"fmt"
	"strings"

	"review-eval/internal/errdefs"
)

var (
	ErrNotAssigned = fmt.Errorf("paper not assigned to rater: %w", errdefs.ErrPermissionDenied)
	ErrNoReviews   = fmt.Errorf("no reviews for paper: %w", errdefs.ErrNotFound)
)

// ValidationError lists every point that blocks a submission.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d unrated point(s)", len(e.Missing)))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid rating(s)", len(e.Invalid)))
	}
	return "incomplete evaluation: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return errdefs.ErrValidation
}

// Message is the text shown next to the submit button.
func (e *ValidationError) Message() string {
	return "Please ensure all fields (Summary and Points) are rated for every review set."
}
