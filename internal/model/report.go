package model

import (
	"encoding/json"
	"fmt"
)

// ScopeSpec is a resolved analysis window. Days == 0 means lifetime.
type ScopeSpec struct {
	Days int
}

// Lifetime is the unbounded scope.
var Lifetime = ScopeSpec{}

// LastNDays returns a rolling-window scope. Non-positive n yields Lifetime.
func LastNDays(n int) ScopeSpec {
	if n <= 0 {
		return Lifetime
	}
	return ScopeSpec{Days: n}
}

// IsLifetime reports whether the scope is unbounded.
func (s ScopeSpec) IsLifetime() bool {
	return s.Days <= 0
}

// String returns the canonical token for the scope ("lifetime", "90d").
func (s ScopeSpec) String() string {
	if s.IsLifetime() {
		return "lifetime"
	}
	return fmt.Sprintf("%dd", s.Days)
}

// MetricsReport holds gap statistics for one bucket of uploads. Day-valued
// floats are rounded to 2 decimals; nil means the statistic is undefined.
type MetricsReport struct {
	TotalVideos      int      `json:"totalVideos"`
	AverageGapDays   *float64 `json:"averageGapDays"`
	MedianGapDays    *float64 `json:"medianGapDays"`
	StdDevGapDays    *float64 `json:"stdDevGapDays"`
	LongestGapDays   *float64 `json:"longestGapDays"`
	ShortestGapDays  *float64 `json:"shortestGapDays"`
	UploadsLast30    int      `json:"uploadsLast30Days"`
	ActiveUploadDays int      `json:"activeUploadDays"`
	UploadsPerWeek   *float64 `json:"uploadsPerWeek"`
	ConsistencyScore *float64 `json:"consistencyScore"`
	FirstUpload      string   `json:"firstUpload"`
	LatestUpload     string   `json:"latestUpload"`
}

// BucketReport is the Metric Engine outcome for one bucket: either computed
// metrics or the insufficient-data marker, never both.
type BucketReport struct {
	InsufficientData bool
	Metrics          *MetricsReport
}

// MarshalJSON renders insufficient buckets as {"insufficientData": true} and
// computed buckets as the flat metrics object.
func (b BucketReport) MarshalJSON() ([]byte, error) {
	if b.InsufficientData || b.Metrics == nil {
		return []byte(`{"insufficientData":true}`), nil
	}
	return json.Marshal(b.Metrics)
}

// UnmarshalJSON is the inverse of MarshalJSON, used when reading snapshots back.
func (b *BucketReport) UnmarshalJSON(data []byte) error {
	var probe struct {
		InsufficientData bool `json:"insufficientData"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.InsufficientData {
		*b = BucketReport{InsufficientData: true}
		return nil
	}
	var m MetricsReport
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*b = BucketReport{Metrics: &m}
	return nil
}

// Outcome classifies a periodicity analysis.
type Outcome string

const (
	OutcomeOK                     Outcome = "ok"
	OutcomeInsufficientInput      Outcome = "insufficient_input"
	OutcomeInsufficientScopedData Outcome = "insufficient_scoped_data"
)

// OverallCounts summarizes the scoped uploads. UnknownDurationCount is the
// subset of LongFormCount whose duration could not be determined.
type OverallCounts struct {
	TotalVideos          int `json:"totalVideos"`
	LongFormCount        int `json:"longFormCount"`
	ShortFormCount       int `json:"shortFormCount"`
	UnknownDurationCount int `json:"unknownDurationCount"`
}

// PeriodicityReport is the full cadence analysis for one channel and scope.
// Overall, LongForm and ShortForm are only set when Outcome is OutcomeOK.
type PeriodicityReport struct {
	Outcome        Outcome           `json:"outcome"`
	Message        string            `json:"message,omitempty"`
	Scope          string            `json:"scope"`
	RequestedScope string            `json:"requestedScope"`
	Overall        *OverallCounts    `json:"overall,omitempty"`
	LongForm       *BucketReport     `json:"longForm,omitempty"`
	ShortForm      *BucketReport     `json:"shortForm,omitempty"`
	Graphs         map[string]string `json:"graphs,omitempty"`
}

// OK reports whether the analysis produced numeric results.
func (r *PeriodicityReport) OK() bool {
	return r != nil && r.Outcome == OutcomeOK
}

// AnalyticsResponse is the API response for the analytics endpoints. Exactly
// one of (Channel, Analytics) or (Ambiguous, Candidates) is populated.
type AnalyticsResponse struct {
	Ambiguous  bool               `json:"ambiguous,omitempty"`
	Candidates []RankedCandidate  `json:"candidates,omitempty"`
	Channel    *RankedCandidate   `json:"channel,omitempty"`
	Analytics  *PeriodicityReport `json:"analytics,omitempty"`
}
