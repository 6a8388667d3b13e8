package model

import "time"

// Snapshot is a stored analysis run for a channel.
type Snapshot struct {
	ID             string             `json:"id"`
	ChannelID      string             `json:"channelId"`
	ChannelTitle   string             `json:"channelTitle"`
	Scope          string             `json:"scope"`
	Outcome        Outcome            `json:"outcome"`
	TotalVideos    int                `json:"totalVideos"`
	LongFormCount  int                `json:"longFormCount"`
	ShortFormCount int                `json:"shortFormCount"`
	Report         *PeriodicityReport `json:"report"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// HistoryResponse is the API response for snapshot history lookups.
type HistoryResponse struct {
	ChannelID string     `json:"channelId"`
	Snapshots []Snapshot `json:"snapshots"`
}
