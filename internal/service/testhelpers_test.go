package service

import (
	"testing"
	"time"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts.UTC()
}

func upload(t *testing.T, id, published string, seconds *int) model.UploadRecord {
	t.Helper()
	return model.UploadRecord{
		VideoID:         id,
		Title:           "video " + id,
		PublishedAt:     mustTime(t, published),
		DurationSeconds: seconds,
	}
}

func secs(v int) *int { return &v }

func assertFloat(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %.2f", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func assertNil(t *testing.T, name string, got *float64) {
	t.Helper()
	if got != nil {
		t.Errorf("%s = %v, want nil", name, *got)
	}
}
