package model

// ChannelCandidate is a channel returned by the directory search, before ranking.
type ChannelCandidate struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	SubscriberCount uint64 `json:"subscriberCount"`
	VideoCount      uint64 `json:"videoCount"`
	Description     string `json:"description,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
}

// RankedCandidate is a ChannelCandidate scored against a specific query.
// The score is recomputed per query and never persisted.
type RankedCandidate struct {
	ChannelCandidate
	ConfidenceScore float64 `json:"confidenceScore"`
}

// SearchResponse is the API response for channel searches.
type SearchResponse struct {
	Query      string            `json:"query"`
	Candidates []RankedCandidate `json:"candidates"`
}
