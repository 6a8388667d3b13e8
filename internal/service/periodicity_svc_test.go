package service

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

func newPeriodicity() *PeriodicityService {
	return NewPeriodicityService(NewScopeService(), NewMetricsService())
}

func TestAnalyze_EndToEndLongForm(t *testing.T) {
	svc := newPeriodicity()
	now := mustTime(t, "2024-02-01T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "1", "2024-01-01T00:00:00Z", secs(600)),
		upload(t, "2", "2024-01-11T00:00:00Z", secs(900)),
		upload(t, "3", "2024-01-21T00:00:00Z", secs(1200)),
	}

	report := svc.Analyze(records, "lifetime", now)
	if report.Outcome != model.OutcomeOK {
		t.Fatalf("outcome = %s, want ok", report.Outcome)
	}
	if report.Scope != "lifetime" || report.RequestedScope != "lifetime" {
		t.Errorf("scope = %s/%s", report.Scope, report.RequestedScope)
	}
	if report.Overall.TotalVideos != 3 || report.Overall.LongFormCount != 3 || report.Overall.ShortFormCount != 0 {
		t.Errorf("overall = %+v", report.Overall)
	}

	long := report.LongForm.Metrics
	if long == nil {
		t.Fatal("longForm metrics = nil")
	}
	if long.TotalVideos != 3 {
		t.Errorf("longForm.totalVideos = %d, want 3", long.TotalVideos)
	}
	assertFloat(t, "averageGapDays", long.AverageGapDays, 10.0)
	assertFloat(t, "medianGapDays", long.MedianGapDays, 10.0)
	assertFloat(t, "consistencyScore", long.ConsistencyScore, 1.0)
	if long.FirstUpload != "2024-01-01" || long.LatestUpload != "2024-01-21" {
		t.Errorf("first/latest = %s/%s", long.FirstUpload, long.LatestUpload)
	}

	if !report.ShortForm.InsufficientData {
		t.Error("shortForm should be insufficient with no shorts")
	}
}

func TestAnalyze_InsufficientInput(t *testing.T) {
	svc := newPeriodicity()
	now := mustTime(t, "2024-02-01T00:00:00Z")

	report := svc.Analyze([]model.UploadRecord{upload(t, "1", "2024-01-01T00:00:00Z", nil)}, "90d", now)
	if report.Outcome != model.OutcomeInsufficientInput {
		t.Fatalf("outcome = %s, want insufficient_input", report.Outcome)
	}
	if report.Overall != nil || report.LongForm != nil || report.ShortForm != nil {
		t.Error("insufficient report must not carry numeric sections")
	}
}

func TestAnalyze_InsufficientScopedData(t *testing.T) {
	svc := newPeriodicity()
	now := mustTime(t, "2024-06-01T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "1", "2023-01-01T00:00:00Z", nil),
		upload(t, "2", "2023-02-01T00:00:00Z", nil),
		upload(t, "3", "2024-05-30T00:00:00Z", nil),
	}

	report := svc.Analyze(records, "30D", now)
	if report.Outcome != model.OutcomeInsufficientScopedData {
		t.Fatalf("outcome = %s, want insufficient_scoped_data", report.Outcome)
	}
	if report.RequestedScope != "30D" || report.Scope != "30d" {
		t.Errorf("scope = %s, requested = %s", report.Scope, report.RequestedScope)
	}
	if report.Message == "" {
		t.Error("message should explain the outcome")
	}
}

func TestAnalyze_ClassifiesShortsAndUnknown(t *testing.T) {
	svc := newPeriodicity()
	now := mustTime(t, "2024-02-01T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "s1", "2024-01-01T00:00:00Z", secs(30)),
		upload(t, "s2", "2024-01-02T00:00:00Z", secs(60)),
		upload(t, "s3", "2024-01-04T00:00:00Z", secs(15)),
		upload(t, "l1", "2024-01-03T00:00:00Z", secs(61)),
		upload(t, "u1", "2024-01-10T00:00:00Z", nil),
	}

	report := svc.Analyze(records, "lifetime", now)
	want := model.OverallCounts{TotalVideos: 5, LongFormCount: 2, ShortFormCount: 3, UnknownDurationCount: 1}
	if *report.Overall != want {
		t.Errorf("overall = %+v, want %+v", *report.Overall, want)
	}
	if report.ShortForm.Metrics == nil || report.ShortForm.Metrics.TotalVideos != 3 {
		t.Errorf("shortForm = %+v", report.ShortForm)
	}
	if report.LongForm.Metrics == nil || report.LongForm.Metrics.TotalVideos != 2 {
		t.Errorf("longForm = %+v", report.LongForm)
	}
	// long-form: Jan 3 -> Jan 10
	assertFloat(t, "longForm.averageGapDays", report.LongForm.Metrics.AverageGapDays, 7.0)
}

func TestAnalyze_ScopeFiltersBeforeClassifying(t *testing.T) {
	svc := newPeriodicity()
	now := mustTime(t, "2024-06-01T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "old", "2020-01-01T00:00:00Z", secs(600)),
		upload(t, "a", "2024-05-01T00:00:00Z", secs(600)),
		upload(t, "b", "2024-05-15T00:00:00Z", secs(600)),
	}

	report := svc.Analyze(records, "90d", now)
	if report.Overall.TotalVideos != 2 {
		t.Errorf("totalVideos = %d, want 2 (old upload outside scope)", report.Overall.TotalVideos)
	}
	assertFloat(t, "averageGapDays", report.LongForm.Metrics.AverageGapDays, 14.0)
}

func TestAnalyze_Idempotent(t *testing.T) {
	svc := newPeriodicity()
	now := mustTime(t, "2024-02-01T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "3", "2024-01-21T09:30:00Z", secs(45)),
		upload(t, "1", "2024-01-01T00:00:00Z", secs(600)),
		upload(t, "2", "2024-01-11T18:00:00Z", nil),
		upload(t, "4", "2024-01-25T00:00:00Z", secs(20)),
	}

	first, err := json.Marshal(svc.Analyze(records, "90d", now))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(svc.Analyze(records, "90d", now))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("reports differ:\n%s\n%s", first, second)
	}
}

func TestScoped_SortedAndFiltered(t *testing.T) {
	svc := newPeriodicity()
	now := mustTime(t, "2024-06-01T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "b", "2024-05-15T00:00:00Z", nil),
		upload(t, "old", "2020-01-01T00:00:00Z", nil),
		upload(t, "a", "2024-05-01T00:00:00Z", nil),
	}

	got := svc.Scoped(records, "60d", now)
	if len(got) != 2 || got[0].VideoID != "a" || got[1].VideoID != "b" {
		t.Errorf("Scoped = %+v", got)
	}
}
