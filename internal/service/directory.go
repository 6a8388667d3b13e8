package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

var (
	// ErrChannelNotFound means no channel matched the query or id.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrUpstream wraps failures of the channel directory.
	ErrUpstream = errors.New("upstream channel directory failed")
)

// ChannelDirectory is the upstream source of channels and their uploads.
// Implementations report unknown channels with an error that matches
// youtube.ErrChannelNotFound or ErrChannelNotFound under errors.Is.
type ChannelDirectory interface {
	SearchCandidates(ctx context.Context, query string, limit int) ([]model.ChannelCandidate, error)
	LookupChannel(ctx context.Context, channelID string) (model.ChannelCandidate, error)
	FetchUploads(ctx context.Context, channelID string) ([]model.UploadItem, error)
}

// BuildRecords converts raw upload items, dropping any whose publish
// timestamp is malformed. Missing or unparseable durations are kept.
func BuildRecords(items []model.UploadItem) []model.UploadRecord {
	records := make([]model.UploadRecord, 0, len(items))
	dropped := 0
	for _, item := range items {
		rec, err := model.NewUploadRecord(item)
		if err != nil {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if dropped > 0 {
		log.Warn().
			Int("dropped", dropped).
			Int("kept", len(records)).
			Msg("uploads: dropped records with malformed timestamps")
	}
	return records
}
