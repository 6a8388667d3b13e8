package service

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

const (
	dateLayout   = "2006-01-02"
	recentWindow = 30 * day
	// Rates over spans shorter than a week are computed per one week.
	minWeeksSpan = 1.0
)

// MetricsService computes upload gap statistics for one bucket of uploads.
// It is pure: the reference instant is always passed in.
type MetricsService struct{}

func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

// Compute returns gap statistics for records, or the insufficient-data
// variant when fewer than two records are given.
func (s *MetricsService) Compute(records []model.UploadRecord, now time.Time) model.BucketReport {
	if len(records) < 2 {
		return model.BucketReport{InsufficientData: true}
	}

	sorted := SortByPublished(records)
	gaps := GapSeries(sorted)
	first, last := sorted[0].PublishedAt, sorted[len(sorted)-1].PublishedAt

	mean := Mean(gaps)
	median := Median(gaps)

	var consistency *float64
	if mean > 0 {
		consistency = SafeRound(median/mean, 2)
	}

	// Whole days, matching calendar-style span reporting.
	spanDays := float64(last.Sub(first) / day)
	weeks := math.Max(spanDays/7, minWeeksSpan)

	return model.BucketReport{Metrics: &model.MetricsReport{
		TotalVideos:      len(sorted),
		AverageGapDays:   SafeRound(mean, 2),
		MedianGapDays:    SafeRound(median, 2),
		StdDevGapDays:    SafeRound(SampleStdDev(gaps), 2),
		LongestGapDays:   SafeRound(slices.Max(gaps), 2),
		ShortestGapDays:  shortestPositive(gaps),
		UploadsLast30:    countSince(sorted, now.UTC().Add(-recentWindow)),
		ActiveUploadDays: distinctDays(sorted),
		UploadsPerWeek:   SafeRound(float64(len(sorted))/weeks, 2),
		ConsistencyScore: consistency,
		FirstUpload:      first.Format(dateLayout),
		LatestUpload:     last.Format(dateLayout),
	}}
}

// SortByPublished returns a copy of records ordered by publish time.
// Records sharing a timestamp keep their input order.
func SortByPublished(records []model.UploadRecord) []model.UploadRecord {
	sorted := slices.Clone(records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.Before(sorted[j].PublishedAt)
	})
	return sorted
}

// GapSeries returns the fractional-day gaps between consecutive records of an
// already sorted slice. len(result) == len(sorted)-1.
func GapSeries(sorted []model.UploadRecord) []float64 {
	if len(sorted) < 2 {
		return nil
	}
	gaps := make([]float64, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps[i-1] = sorted[i].PublishedAt.Sub(sorted[i-1].PublishedAt).Seconds() / day.Seconds()
	}
	return gaps
}

// Mean returns the arithmetic mean, NaN for an empty series.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Median returns the middle value (mean of the two middle values for even
// lengths), NaN for an empty series.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// SampleStdDev uses the n-1 denominator and is NaN when n < 2.
func SampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	mean := Mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(n-1))
}

// SafeRound rounds to the given number of decimals and maps NaN/Inf to nil.
func SafeRound(v float64, places int) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	return &r
}

// shortestPositive ignores zero gaps from same-timestamp uploads.
func shortestPositive(gaps []float64) *float64 {
	shortest := math.Inf(1)
	for _, g := range gaps {
		if g > 0 && g < shortest {
			shortest = g
		}
	}
	return SafeRound(shortest, 2)
}

func countSince(records []model.UploadRecord, since time.Time) int {
	n := 0
	for _, r := range records {
		if r.PublishedAt.After(since) {
			n++
		}
	}
	return n
}

func distinctDays(records []model.UploadRecord) int {
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		days[r.PublishedAt.UTC().Format(dateLayout)] = struct{}{}
	}
	return len(days)
}
