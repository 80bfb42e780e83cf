package pipeline

import (
	"errors"
	"fmt"
)

// Pipeline failures surfaced to callers. Match with errors.Is / errors.As.
var (
	ErrContentUnavailable     = errors.New("upstream content unavailable")
	ErrNoClaims               = errors.New("no claims extracted")
	ErrAdjudicatorUnavailable = errors.New("adjudicator unavailable")
	ErrDeadlineExceeded       = errors.New("deadline exceeded")
	ErrEmptyInput             = errors.New("empty input")
)

// FetchError reports an article whose content could not be retrieved
type FetchError struct {
	URL    string
	Status string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
}

// Unwrap makes FetchError match ErrContentUnavailable
func (e *FetchError) Unwrap() error {
	return ErrContentUnavailable
}
