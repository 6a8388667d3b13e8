package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

type fakeDirectory struct {
	mu         sync.Mutex
	candidates []model.ChannelCandidate
	uploads    map[string][]model.UploadItem
	err        error

	searchCalls  int
	lookupCalls  int
	uploadsCalls int
}

func (f *fakeDirectory) SearchCandidates(_ context.Context, _ string, limit int) ([]model.ChannelCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates[:min(limit, len(f.candidates))], nil
}

func (f *fakeDirectory) LookupChannel(_ context.Context, channelID string) (model.ChannelCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	if f.err != nil {
		return model.ChannelCandidate{}, f.err
	}
	for _, c := range f.candidates {
		if c.ID == channelID {
			return c, nil
		}
	}
	return model.ChannelCandidate{}, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
}

func (f *fakeDirectory) FetchUploads(_ context.Context, channelID string) ([]model.UploadItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadsCalls++
	if f.err != nil {
		return nil, f.err
	}
	items, ok := f.uploads[channelID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	return items, nil
}

type fakeSnapshots struct {
	saved   []model.Snapshot
	saveErr error
}

func (f *fakeSnapshots) Save(_ context.Context, s *model.Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *s)
	return nil
}

func (f *fakeSnapshots) ListByChannel(_ context.Context, channelID string, limit int) ([]model.Snapshot, error) {
	var out []model.Snapshot
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].ChannelID == channelID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}
