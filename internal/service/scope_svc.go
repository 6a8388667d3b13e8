package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

// maxScopeDays caps rolling windows so n*24h stays far inside time.Duration's
// range (about 106751 days); wider tokens are treated as lifetime.
const maxScopeDays = 36500

const day = 24 * time.Hour

// ScopeService turns scope tokens into time windows and applies them.
type ScopeService struct{}

func NewScopeService() *ScopeService {
	return &ScopeService{}
}

// Resolve maps tokens like "30d", "90", "lifetime" to a ScopeSpec. It never
// fails: unknown, unparseable or non-positive tokens resolve to Lifetime.
func (s *ScopeService) Resolve(token string) model.ScopeSpec {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "lifetime" {
		return model.Lifetime
	}
	t = strings.TrimSuffix(t, "d")

	n, err := strconv.Atoi(t)
	if err != nil || n <= 0 || n > maxScopeDays {
		return model.Lifetime
	}
	return model.LastNDays(n)
}

// Cutoff returns the earliest instant inside spec relative to now. ok is
// false for Lifetime.
func (s *ScopeService) Cutoff(spec model.ScopeSpec, now time.Time) (cutoff time.Time, ok bool) {
	if spec.IsLifetime() {
		return time.Time{}, false
	}
	return now.UTC().Add(-time.Duration(spec.Days) * day), true
}

// Filter keeps records published at or after now - n days. Lifetime returns
// records unchanged.
func (s *ScopeService) Filter(records []model.UploadRecord, spec model.ScopeSpec, now time.Time) []model.UploadRecord {
	cutoff, ok := s.Cutoff(spec, now)
	if !ok {
		return records
	}

	kept := make([]model.UploadRecord, 0, len(records))
	for _, r := range records {
		if !r.PublishedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}
