package service

import (
	"math"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

const (
	nameWeight        = 0.50
	subscribersWeight = 0.35
	videosWeight      = 0.15

	// Full popularity factors at 1M subscribers and 1000 uploads
	subscribersMax = 1_000_000.0
	videosMax      = 1_000.0

	// DefaultAutoSelectThreshold is the confidence above which the top
	// candidate is considered unambiguous.
	DefaultAutoSelectThreshold = 0.85
)

// RankService orders channel candidates by how likely they are the channel a
// free-text query refers to.
type RankService struct{}

func NewRankService() *RankService {
	return &RankService{}
}

// Rank scores every candidate against query and returns them ordered by
// descending confidence. Ties keep their input order.
func (s *RankService) Rank(query string, candidates []model.ChannelCandidate) []model.RankedCandidate {
	ranked := make([]model.RankedCandidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = model.RankedCandidate{
			ChannelCandidate: c,
			ConfidenceScore:  s.Confidence(query, c),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConfidenceScore > ranked[j].ConfidenceScore
	})
	return ranked
}

// Confidence blends name similarity with popularity:
//
//	confidence = 0.5*name + 0.35*min(subs/1M, 1) + 0.15*min(videos/1000, 1)
//
// rounded to 3 decimals.
func (s *RankService) Confidence(query string, c model.ChannelCandidate) float64 {
	nameScore := Similarity(query, c.Title)
	subsScore := math.Min(float64(c.SubscriberCount)/subscribersMax, 1)
	videoScore := math.Min(float64(c.VideoCount)/videosMax, 1)

	score := nameWeight*nameScore + subscribersWeight*subsScore + videosWeight*videoScore
	return math.Round(score*1000) / 1000
}

// Similarity is the case-insensitive sequence-matching ratio of a and b:
// 2*M / (len(a)+len(b)) where M is the size of the matching blocks.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	m := difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b)))
	return m.Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
