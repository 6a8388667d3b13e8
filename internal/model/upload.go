package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/pkg/isoduration"
)

// ShortFormMaxSeconds is the inclusive upper bound for short-form uploads.
const ShortFormMaxSeconds = 60

// ErrMalformedTimestamp is returned when an upload's publish time cannot be
// placed on the UTC timeline.
var ErrMalformedTimestamp = errors.New("malformed publish timestamp")

// UploadItem is an upload as handed over by the channel directory: raw
// strings, not yet validated.
type UploadItem struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	PublishedAt string `json:"publishedAt"`
	Duration    string `json:"duration,omitempty"`
}

// UploadRecord is a validated upload. PublishedAt is always UTC.
// DurationSeconds is nil when the source duration was missing or unparseable.
type UploadRecord struct {
	VideoID         string
	Title           string
	PublishedAt     time.Time
	DurationSeconds *int
}

// NewUploadRecord validates an UploadItem. The publish time must carry an
// explicit offset; naive timestamps are rejected rather than guessed.
// A bad duration is not an error, it just leaves DurationSeconds nil.
func NewUploadRecord(item UploadItem) (UploadRecord, error) {
	published, err := time.Parse(time.RFC3339Nano, item.PublishedAt)
	if err != nil {
		return UploadRecord{}, fmt.Errorf("%w: video %s: %q", ErrMalformedTimestamp, item.VideoID, item.PublishedAt)
	}

	var duration *int
	if s, ok := isoduration.Seconds(item.Duration); ok {
		duration = &s
	}

	return UploadRecord{
		VideoID:         item.VideoID,
		Title:           item.Title,
		PublishedAt:     published.UTC(),
		DurationSeconds: duration,
	}, nil
}

// IsShort reports whether the upload is short-form. Uploads with an unknown
// duration are treated as long-form.
func (r UploadRecord) IsShort() bool {
	return r.DurationSeconds != nil && *r.DurationSeconds <= ShortFormMaxSeconds
}
