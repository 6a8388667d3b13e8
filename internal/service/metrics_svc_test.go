package service

import (
	"math"
	"testing"
	"time"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

func TestCompute_InsufficientData(t *testing.T) {
	svc := NewMetricsService()
	now := mustTime(t, "2024-02-01T00:00:00Z")

	for _, records := range [][]model.UploadRecord{
		nil,
		{upload(t, "only", "2024-01-01T00:00:00Z", nil)},
	} {
		got := svc.Compute(records, now)
		if !got.InsufficientData || got.Metrics != nil {
			t.Errorf("Compute(%d records) = %+v, want insufficient variant", len(records), got)
		}
	}
}

func TestCompute_TwoRecordsTenDaysApart(t *testing.T) {
	svc := NewMetricsService()
	now := mustTime(t, "2024-02-01T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "b", "2024-01-11T00:00:00Z", nil),
		upload(t, "a", "2024-01-01T00:00:00Z", nil),
	}

	got := svc.Compute(records, now)
	if got.InsufficientData {
		t.Fatal("unexpected insufficient data")
	}
	m := got.Metrics
	if m.TotalVideos != 2 {
		t.Errorf("totalVideos = %d, want 2", m.TotalVideos)
	}
	assertFloat(t, "averageGapDays", m.AverageGapDays, 10.0)
	assertFloat(t, "medianGapDays", m.MedianGapDays, 10.0)
	assertFloat(t, "longestGapDays", m.LongestGapDays, 10.0)
	assertFloat(t, "shortestGapDays", m.ShortestGapDays, 10.0)
	assertFloat(t, "consistencyScore", m.ConsistencyScore, 1.0)
	assertNil(t, "stdDevGapDays", m.StdDevGapDays)
	// span 10 days < 1 week floor is not hit: 2 / (10/7)
	assertFloat(t, "uploadsPerWeek", m.UploadsPerWeek, 1.4)
	if m.FirstUpload != "2024-01-01" || m.LatestUpload != "2024-01-11" {
		t.Errorf("first/latest = %s/%s", m.FirstUpload, m.LatestUpload)
	}
}

func TestCompute_EvenlySpaced(t *testing.T) {
	svc := NewMetricsService()
	now := mustTime(t, "2024-01-25T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "1", "2024-01-01T00:00:00Z", nil),
		upload(t, "2", "2024-01-11T00:00:00Z", nil),
		upload(t, "3", "2024-01-21T00:00:00Z", nil),
	}

	m := svc.Compute(records, now).Metrics
	if m == nil {
		t.Fatal("metrics = nil")
	}
	assertFloat(t, "averageGapDays", m.AverageGapDays, 10.0)
	assertFloat(t, "medianGapDays", m.MedianGapDays, 10.0)
	assertFloat(t, "stdDevGapDays", m.StdDevGapDays, 0.0)
	assertFloat(t, "consistencyScore", m.ConsistencyScore, 1.0)
	assertFloat(t, "uploadsPerWeek", m.UploadsPerWeek, 1.05)
	if m.UploadsLast30 != 3 {
		t.Errorf("uploadsLast30Days = %d, want 3", m.UploadsLast30)
	}
	if m.ActiveUploadDays != 3 {
		t.Errorf("activeUploadDays = %d, want 3", m.ActiveUploadDays)
	}
}

func TestCompute_DuplicateTimestampsExcludedFromShortest(t *testing.T) {
	svc := NewMetricsService()
	now := mustTime(t, "2024-03-01T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "a", "2024-01-01T00:00:00Z", nil),
		upload(t, "b", "2024-01-01T00:00:00Z", nil),
		upload(t, "c", "2024-01-03T00:00:00Z", nil),
	}

	m := svc.Compute(records, now).Metrics
	assertFloat(t, "shortestGapDays", m.ShortestGapDays, 2.0)
	assertFloat(t, "longestGapDays", m.LongestGapDays, 2.0)
	assertFloat(t, "averageGapDays", m.AverageGapDays, 1.0)
	assertFloat(t, "medianGapDays", m.MedianGapDays, 1.0)
	assertFloat(t, "stdDevGapDays", m.StdDevGapDays, 1.41)
	assertFloat(t, "uploadsPerWeek", m.UploadsPerWeek, 3.0)
	if m.ActiveUploadDays != 2 {
		t.Errorf("activeUploadDays = %d, want 2", m.ActiveUploadDays)
	}
	if m.UploadsLast30 != 0 {
		t.Errorf("uploadsLast30Days = %d, want 0", m.UploadsLast30)
	}
}

func TestCompute_AllSameTimestamp(t *testing.T) {
	svc := NewMetricsService()
	now := mustTime(t, "2024-01-02T00:00:00Z")
	records := []model.UploadRecord{
		upload(t, "a", "2024-01-01T08:00:00Z", nil),
		upload(t, "b", "2024-01-01T08:00:00Z", nil),
	}

	m := svc.Compute(records, now).Metrics
	assertFloat(t, "averageGapDays", m.AverageGapDays, 0)
	assertFloat(t, "longestGapDays", m.LongestGapDays, 0)
	assertNil(t, "shortestGapDays", m.ShortestGapDays)
	assertNil(t, "consistencyScore", m.ConsistencyScore)
	assertFloat(t, "uploadsPerWeek", m.UploadsPerWeek, 2)
}

func TestCompute_BurstyCadence(t *testing.T) {
	svc := NewMetricsService()
	now := mustTime(t, "2024-12-01T00:00:00Z")
	// gaps: 1, 1, 1, 97 days
	records := []model.UploadRecord{
		upload(t, "1", "2024-01-01T00:00:00Z", nil),
		upload(t, "2", "2024-01-02T00:00:00Z", nil),
		upload(t, "3", "2024-01-03T00:00:00Z", nil),
		upload(t, "4", "2024-01-04T00:00:00Z", nil),
		upload(t, "5", "2024-04-10T00:00:00Z", nil),
	}

	m := svc.Compute(records, now).Metrics
	assertFloat(t, "averageGapDays", m.AverageGapDays, 25.0)
	assertFloat(t, "medianGapDays", m.MedianGapDays, 1.0)
	assertFloat(t, "consistencyScore", m.ConsistencyScore, 0.04)
	if *m.ConsistencyScore >= 1 {
		t.Error("bursty cadence should score below 1")
	}
}

func TestCompute_UploadsLast30Days(t *testing.T) {
	svc := NewMetricsService()
	now := mustTime(t, "2024-03-31T00:00:00Z")
	old := upload(t, "old", "2024-01-01T00:00:00Z", nil)

	tests := []struct {
		name      string
		published string
		want      int
	}{
		{"exactly 30 days before now", "2024-03-01T00:00:00Z", 0},
		{"one second inside window", "2024-03-01T00:00:01Z", 1},
		{"one second outside window", "2024-02-29T23:59:59Z", 0},
		{"at now", "2024-03-31T00:00:00Z", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []model.UploadRecord{old, upload(t, "edge", tt.published, nil)}
			m := svc.Compute(records, now).Metrics
			if m == nil {
				t.Fatal("metrics = nil")
			}
			if m.UploadsLast30 != tt.want {
				t.Errorf("uploadsLast30Days = %d, want %d", m.UploadsLast30, tt.want)
			}
		})
	}
}

func TestCompute_ActiveUploadDaysUsesUTCDates(t *testing.T) {
	svc := NewMetricsService()
	now := mustTime(t, "2024-02-01T00:00:00Z")
	est := time.FixedZone("EST", -5*60*60)
	ist := time.FixedZone("IST", 5*60*60+30*60)

	tests := []struct {
		name  string
		times []time.Time
		want  int
	}{
		{
			// 23:30 EST on Jan 1 is 04:30 UTC on Jan 2.
			name: "local evening falls on next UTC day",
			times: []time.Time{
				time.Date(2024, 1, 1, 23, 30, 0, 0, est),
				time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC),
			},
			want: 1,
		},
		{
			// Same local date, different UTC dates.
			name: "local morning falls on previous UTC day",
			times: []time.Time{
				time.Date(2024, 1, 2, 2, 0, 0, 0, ist),
				time.Date(2024, 1, 2, 12, 0, 0, 0, ist),
			},
			want: 2,
		},
		{
			name: "mixed zones across three UTC days",
			times: []time.Time{
				time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 1, 20, 0, 0, 0, est),
				time.Date(2024, 1, 3, 6, 0, 0, 0, ist),
			},
			want: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]model.UploadRecord, len(tt.times))
			for i, ts := range tt.times {
				records[i] = model.UploadRecord{VideoID: ts.String(), PublishedAt: ts}
			}
			m := svc.Compute(records, now).Metrics
			if m == nil {
				t.Fatal("metrics = nil")
			}
			if m.ActiveUploadDays != tt.want {
				t.Errorf("activeUploadDays = %d, want %d", m.ActiveUploadDays, tt.want)
			}
		})
	}
}

func TestGapSeries_LengthAndOrder(t *testing.T) {
	records := []model.UploadRecord{
		upload(t, "c", "2024-01-05T12:00:00Z", nil),
		upload(t, "a", "2024-01-01T00:00:00Z", nil),
		upload(t, "d", "2024-01-06T00:00:00Z", nil),
		upload(t, "b", "2024-01-03T00:00:00Z", nil),
	}

	sorted := SortByPublished(records)
	gaps := GapSeries(sorted)
	if len(gaps) != len(records)-1 {
		t.Fatalf("len(gaps) = %d, want %d", len(gaps), len(records)-1)
	}
	want := []float64{2, 2.5, 0.5}
	for i := range want {
		if math.Abs(gaps[i]-want[i]) > 1e-9 {
			t.Errorf("gap[%d] = %v, want %v", i, gaps[i], want[i])
		}
		if gaps[i] < 0 {
			t.Errorf("gap[%d] negative", i)
		}
	}
	if records[0].VideoID != "c" {
		t.Error("SortByPublished must not reorder its input")
	}
}

func TestSortByPublished_StableOnTies(t *testing.T) {
	records := []model.UploadRecord{
		upload(t, "first", "2024-01-01T00:00:00Z", nil),
		upload(t, "second", "2024-01-01T00:00:00Z", nil),
		upload(t, "earlier", "2023-12-31T00:00:00Z", nil),
	}

	sorted := SortByPublished(records)
	got := []string{sorted[0].VideoID, sorted[1].VideoID, sorted[2].VideoID}
	want := []string{"earlier", "first", "second"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order = %v, want %v", got, want)
			break
		}
	}
}

func TestSafeRound(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		places int
		want   *float64
	}{
		{"nan", math.NaN(), 2, nil},
		{"inf", math.Inf(1), 2, nil},
		{"two places", 1.23456, 2, floatPtr(1.23)},
		{"three places", 0.98765, 3, floatPtr(0.988)},
		{"integer", 10, 2, floatPtr(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeRound(tt.v, tt.places)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("SafeRound = %v, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("SafeRound = %v, want %v", got, *tt.want)
			}
		})
	}
}

func TestMedian_Even(t *testing.T) {
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("Median = %v, want 2.5", got)
	}
	if !math.IsNaN(Median(nil)) {
		t.Error("Median(nil) should be NaN")
	}
}

func floatPtr(v float64) *float64 { return &v }
