package service

import (
	"time"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

const (
	msgInsufficientInput  = "Not enough videos for analysis"
	msgInsufficientScoped = "Not enough videos in selected scope"
)

// PeriodicityService builds a cadence report: scope filtering, short/long
// classification and per-bucket gap statistics.
type PeriodicityService struct {
	scope   *ScopeService
	metrics *MetricsService
}

func NewPeriodicityService(scope *ScopeService, metrics *MetricsService) *PeriodicityService {
	return &PeriodicityService{scope: scope, metrics: metrics}
}

// Analyze never fails. Too little data is reported through the report's
// Outcome so callers can render a friendly message.
func (s *PeriodicityService) Analyze(records []model.UploadRecord, scopeToken string, now time.Time) *model.PeriodicityReport {
	spec := s.scope.Resolve(scopeToken)
	report := &model.PeriodicityReport{
		Scope:          spec.String(),
		RequestedScope: scopeToken,
	}

	if len(records) < 2 {
		report.Outcome = model.OutcomeInsufficientInput
		report.Message = msgInsufficientInput
		return report
	}

	scoped := s.scope.Filter(records, spec, now)
	if len(scoped) < 2 {
		report.Outcome = model.OutcomeInsufficientScopedData
		report.Message = msgInsufficientScoped
		return report
	}

	long, short, unknown := Classify(scoped)
	longForm := s.metrics.Compute(long, now)
	shortForm := s.metrics.Compute(short, now)

	report.Outcome = model.OutcomeOK
	report.Overall = &model.OverallCounts{
		TotalVideos:          len(scoped),
		LongFormCount:        len(long),
		ShortFormCount:       len(short),
		UnknownDurationCount: unknown,
	}
	report.LongForm = &longForm
	report.ShortForm = &shortForm
	return report
}

// Scoped returns the records inside scopeToken's window, sorted by publish
// time. Chart rendering uses it to see exactly what Analyze saw.
func (s *PeriodicityService) Scoped(records []model.UploadRecord, scopeToken string, now time.Time) []model.UploadRecord {
	return SortByPublished(s.scope.Filter(records, s.scope.Resolve(scopeToken), now))
}

// Classify splits records into long-form and short-form buckets. Records
// with unknown duration go to long-form and are also counted in unknown.
func Classify(records []model.UploadRecord) (long, short []model.UploadRecord, unknown int) {
	for _, r := range records {
		switch {
		case r.IsShort():
			short = append(short, r)
		default:
			if r.DurationSeconds == nil {
				unknown++
			}
			long = append(long, r)
		}
	}
	return long, short, unknown
}
