package youtube

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/api/googleapi"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrQuotaExceeded   = errors.New("youtube api quota exceeded")
)

// APIError records which Data API operation failed.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube: %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classify maps a Data API failure onto the retry policy. Quota exhaustion,
// missing resources and other client errors are permanent; 429, 5xx and
// transport errors are retried.
func classify(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch {
	case gerr.Code == http.StatusForbidden && hasReason(gerr, "quotaExceeded", "dailyLimitExceeded"):
		return backoff.Permanent(fmt.Errorf("%w: %w", ErrQuotaExceeded, err))
	case gerr.Code == http.StatusNotFound:
		return backoff.Permanent(fmt.Errorf("%w: %w", ErrChannelNotFound, err))
	case gerr.Code == http.StatusTooManyRequests, gerr.Code >= 500:
		return err
	case gerr.Code == http.StatusForbidden && hasReason(gerr, "rateLimitExceeded", "userRateLimitExceeded"):
		return err
	default:
		return backoff.Permanent(err)
	}
}

func hasReason(gerr *googleapi.Error, reasons ...string) bool {
	for _, item := range gerr.Errors {
		for _, r := range reasons {
			if item.Reason == r {
				return true
			}
		}
	}
	return false
}
