package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/youtube"
)

const (
	DefaultSearchLimit  = 5
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	DefaultScope        = "90d"
)

// SnapshotStore persists analysis runs. Optional.
type SnapshotStore interface {
	Save(ctx context.Context, s *model.Snapshot) error
	ListByChannel(ctx context.Context, channelID string, limit int) ([]model.Snapshot, error)
}

// AnalyzeRequest is a channel analysis by free-text query.
type AnalyzeRequest struct {
	Query         string
	Scope         string
	AutoSelect    bool
	IncludeCharts bool
}

// AnalyticsOptions tunes an AnalyticsService. Zero values take defaults.
type AnalyticsOptions struct {
	SearchLimit         int
	AutoSelectThreshold float64
	DefaultScope        string
	Now                 func() time.Time
}

// AnalyticsService ties the channel directory to ranking and periodicity
// analysis. Charts and snapshots are optional.
type AnalyticsService struct {
	dir         ChannelDirectory
	rank        *RankService
	periodicity *PeriodicityService
	charts      *ChartService
	snapshots   SnapshotStore

	searchLimit  int
	threshold    float64
	defaultScope string
	now          func() time.Time
}

func NewAnalyticsService(
	dir ChannelDirectory,
	rank *RankService,
	periodicity *PeriodicityService,
	charts *ChartService,
	snapshots SnapshotStore,
	opts AnalyticsOptions,
) *AnalyticsService {
	s := &AnalyticsService{
		dir:          dir,
		rank:         rank,
		periodicity:  periodicity,
		charts:       charts,
		snapshots:    snapshots,
		searchLimit:  opts.SearchLimit,
		threshold:    opts.AutoSelectThreshold,
		defaultScope: opts.DefaultScope,
		now:          opts.Now,
	}
	if s.searchLimit <= 0 {
		s.searchLimit = DefaultSearchLimit
	}
	if s.threshold <= 0 {
		s.threshold = DefaultAutoSelectThreshold
	}
	if s.defaultScope == "" {
		s.defaultScope = DefaultScope
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// SearchChannels returns ranked candidates for query, best first.
func (s *AnalyticsService) SearchChannels(ctx context.Context, query string) ([]model.RankedCandidate, error) {
	candidates, err := s.dir.SearchCandidates(ctx, query, s.searchLimit)
	if err != nil {
		return nil, directoryErr("search", err)
	}
	return s.rank.Rank(query, candidates), nil
}

// AnalyzeQuery searches for the channel, picks the best candidate and
// analyzes it. When auto-selection is off and the best candidate scores below
// the threshold, the candidates are returned for the caller to choose from.
func (s *AnalyticsService) AnalyzeQuery(ctx context.Context, req AnalyzeRequest) (*model.AnalyticsResponse, error) {
	ranked, err := s.SearchChannels(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrChannelNotFound, req.Query)
	}

	top := ranked[0]
	if !req.AutoSelect && top.ConfidenceScore < s.threshold {
		return &model.AnalyticsResponse{Ambiguous: true, Candidates: ranked}, nil
	}

	report, err := s.analyze(ctx, top, req.Scope, req.IncludeCharts)
	if err != nil {
		return nil, err
	}
	return &model.AnalyticsResponse{Channel: &top, Analytics: report}, nil
}

// AnalyzeChannel analyzes a known channel id.
func (s *AnalyticsService) AnalyzeChannel(ctx context.Context, channelID, scope string, includeCharts bool) (*model.AnalyticsResponse, error) {
	ch, err := s.dir.LookupChannel(ctx, channelID)
	if err != nil {
		return nil, directoryErr("lookup", err)
	}
	channel := model.RankedCandidate{ChannelCandidate: ch, ConfidenceScore: 1}

	report, err := s.analyze(ctx, channel, scope, includeCharts)
	if err != nil {
		return nil, err
	}
	return &model.AnalyticsResponse{Channel: &channel, Analytics: report}, nil
}

// RenderCharts renders the chart set for a channel over the given scope.
// The set is empty when the scope holds no uploads.
func (s *AnalyticsService) RenderCharts(ctx context.Context, channelID, scope string) (map[string][]byte, error) {
	if s.charts == nil {
		return map[string][]byte{}, nil
	}
	records, err := s.records(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.charts.Render(s.periodicity.Scoped(records, s.scopeOrDefault(scope), s.now()))
}

// History lists stored snapshots for a channel, newest first. Empty when
// persistence is disabled.
func (s *AnalyticsService) History(ctx context.Context, channelID string, limit int) ([]model.Snapshot, error) {
	if s.snapshots == nil {
		return []model.Snapshot{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	snaps, err := s.snapshots.ListByChannel(ctx, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	if snaps == nil {
		snaps = []model.Snapshot{}
	}
	return snaps, nil
}

func (s *AnalyticsService) analyze(ctx context.Context, channel model.RankedCandidate, scope string, includeCharts bool) (*model.PeriodicityReport, error) {
	records, err := s.records(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	scope = s.scopeOrDefault(scope)
	now := s.now()
	report := s.periodicity.Analyze(records, scope, now)

	if includeCharts && report.OK() && s.charts != nil {
		charts, err := s.charts.Render(s.periodicity.Scoped(records, scope, now))
		if err != nil {
			log.Warn().Err(err).Str("channel_id", channel.ID).Msg("charts: render failed")
		} else {
			report.Graphs = encodeCharts(charts)
		}
	}

	s.saveSnapshot(ctx, channel, report, now)

	log.Info().
		Str("channel_id", channel.ID).
		Str("scope", report.Scope).
		Str("outcome", string(report.Outcome)).
		Int("uploads", len(records)).
		Msg("analysis complete")
	return report, nil
}

func (s *AnalyticsService) records(ctx context.Context, channelID string) ([]model.UploadRecord, error) {
	items, err := s.dir.FetchUploads(ctx, channelID)
	if err != nil {
		return nil, directoryErr("fetch uploads", err)
	}
	return BuildRecords(items), nil
}

func (s *AnalyticsService) saveSnapshot(ctx context.Context, channel model.RankedCandidate, report *model.PeriodicityReport, now time.Time) {
	if s.snapshots == nil {
		return
	}

	stored := *report
	stored.Graphs = nil
	snap := &model.Snapshot{
		ID:           uuid.NewString(),
		ChannelID:    channel.ID,
		ChannelTitle: channel.Title,
		Scope:        report.Scope,
		Outcome:      report.Outcome,
		Report:       &stored,
		CreatedAt:    now.UTC(),
	}
	if report.Overall != nil {
		snap.TotalVideos = report.Overall.TotalVideos
		snap.LongFormCount = report.Overall.LongFormCount
		snap.ShortFormCount = report.Overall.ShortFormCount
	}

	if err := s.snapshots.Save(ctx, snap); err != nil {
		log.Warn().Err(err).Str("channel_id", channel.ID).Msg("snapshots: save failed")
	}
}

func (s *AnalyticsService) scopeOrDefault(scope string) string {
	if strings.TrimSpace(scope) == "" {
		return s.defaultScope
	}
	return scope
}

func encodeCharts(charts map[string][]byte) map[string]string {
	out := make(map[string]string, len(charts))
	for kind, png := range charts {
		out[kind] = base64.StdEncoding.EncodeToString(png)
	}
	return out
}

// directoryErr maps directory failures onto ErrChannelNotFound or ErrUpstream,
// keeping the original error in the chain.
func directoryErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrChannelNotFound), errors.Is(err, youtube.ErrChannelNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrChannelNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}
}
