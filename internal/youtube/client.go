// Package youtube fetches channel candidates and upload listings from the
// YouTube Data API v3.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

const (
	pageSize         = 50
	durationWorkers  = 4
	defaultLimit     = 5
	defaultRPS       = 5
	defaultRetries   = 3
	maxBackoffWindow = 10 * time.Second
)

// Config configures a Client.
type Config struct {
	APIKey     string
	Endpoint   string // optional override, used by tests
	RPS        float64
	MaxRetries int
	MaxUploads int // 0 = whole playlist
	HTTPClient *http.Client
}

// Client is a paced, retrying Data API client. Safe for concurrent use.
type Client struct {
	svc        *yt.Service
	limiter    *rate.Limiter
	maxTries   uint
	maxUploads int
	newBackOff func() backoff.BackOff
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: create service: %w", err)
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = defaultRetries
	}

	return &Client{
		svc:        svc,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		maxTries:   uint(retries) + 1,
		maxUploads: cfg.MaxUploads,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxInterval = maxBackoffWindow
			return b
		},
	}, nil
}

// call paces and retries a single Data API request.
func call[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) (T, error) {
	res, err := backoff.Retry(ctx, func() (T, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			var zero T
			return zero, backoff.Permanent(err)
		}
		v, err := fn(ctx)
		if err != nil {
			log.Debug().Str("op", op).Err(err).Msg("youtube: request failed")
			return v, classify(err)
		}
		return v, nil
	}, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(c.maxTries))
	if err != nil {
		return res, &APIError{Op: op, Err: err}
	}
	return res, nil
}

// SearchCandidates returns up to limit channels matching query, in search
// order, with statistics filled from channels.list.
func (c *Client) SearchCandidates(ctx context.Context, query string, limit int) ([]model.ChannelCandidate, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > pageSize {
		limit = pageSize
	}

	search, err := call(ctx, c, "search.list", func(ctx context.Context) (*yt.SearchListResponse, error) {
		return c.svc.Search.List([]string{"snippet"}).
			Q(query).
			Type("channel").
			MaxResults(int64(limit)).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(search.Items))
	titles := make(map[string]string, len(search.Items))
	for _, item := range search.Items {
		if item.Id == nil || item.Id.ChannelId == "" {
			continue
		}
		if _, dup := titles[item.Id.ChannelId]; dup {
			continue
		}
		ids = append(ids, item.Id.ChannelId)
		if item.Snippet != nil {
			titles[item.Id.ChannelId] = item.Snippet.Title
		} else {
			titles[item.Id.ChannelId] = ""
		}
	}
	if len(ids) == 0 {
		return []model.ChannelCandidate{}, nil
	}

	channels, err := c.listChannels(ctx, ids, "snippet", "statistics")
	if err != nil {
		return nil, err
	}

	out := make([]model.ChannelCandidate, 0, len(ids))
	for _, id := range ids {
		if ch, ok := channels[id]; ok {
			out = append(out, toCandidate(ch))
			continue
		}
		out = append(out, model.ChannelCandidate{ID: id, Title: titles[id]})
	}
	return out, nil
}

// LookupChannel resolves a single channel id.
func (c *Client) LookupChannel(ctx context.Context, channelID string) (model.ChannelCandidate, error) {
	channels, err := c.listChannels(ctx, []string{channelID}, "snippet", "statistics")
	if err != nil {
		return model.ChannelCandidate{}, err
	}
	ch, ok := channels[channelID]
	if !ok {
		return model.ChannelCandidate{}, &APIError{Op: "channels.list", Err: fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)}
	}
	return toCandidate(ch), nil
}

func (c *Client) listChannels(ctx context.Context, ids []string, parts ...string) (map[string]*yt.Channel, error) {
	resp, err := call(ctx, c, "channels.list", func(ctx context.Context) (*yt.ChannelListResponse, error) {
		return c.svc.Channels.List(parts).
			Id(ids...).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]*yt.Channel, len(resp.Items))
	for _, ch := range resp.Items {
		out[ch.Id] = ch
	}
	return out, nil
}

// FetchUploads lists the channel's uploads playlist and attaches each
// video's ISO-8601 duration. Videos missing from videos.list keep an empty
// duration.
func (c *Client) FetchUploads(ctx context.Context, channelID string) ([]model.UploadItem, error) {
	channels, err := c.listChannels(ctx, []string{channelID}, "contentDetails")
	if err != nil {
		return nil, err
	}
	ch, ok := channels[channelID]
	if !ok || ch.ContentDetails == nil || ch.ContentDetails.RelatedPlaylists == nil ||
		ch.ContentDetails.RelatedPlaylists.Uploads == "" {
		return nil, &APIError{Op: "channels.list", Err: fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)}
	}

	items, err := c.listPlaylist(ctx, ch.ContentDetails.RelatedPlaylists.Uploads)
	if err != nil {
		return nil, err
	}

	if err := c.attachDurations(ctx, items); err != nil {
		return nil, err
	}

	log.Debug().
		Str("channel_id", channelID).
		Int("uploads", len(items)).
		Msg("youtube: uploads fetched")
	return items, nil
}

func (c *Client) listPlaylist(ctx context.Context, playlistID string) ([]model.UploadItem, error) {
	var items []model.UploadItem
	pageToken := ""
	for {
		resp, err := call(ctx, c, "playlistItems.list", func(ctx context.Context) (*yt.PlaylistItemListResponse, error) {
			return c.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(pageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
		})
		if err != nil {
			return nil, err
		}

		for _, it := range resp.Items {
			items = append(items, toUploadItem(it))
			if c.maxUploads > 0 && len(items) >= c.maxUploads {
				return items, nil
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return items, nil
		}
	}
}

// attachDurations fills Duration in place from videos.list, in batches of
// pageSize ids fetched concurrently.
func (c *Client) attachDurations(ctx context.Context, items []model.UploadItem) error {
	if len(items) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(items)+pageSize-1)/pageSize)
	for start := 0; start < len(items); start += pageSize {
		end := min(start+pageSize, len(items))
		ids := make([]string, 0, end-start)
		for _, it := range items[start:end] {
			if it.VideoID != "" {
				ids = append(ids, it.VideoID)
			}
		}
		batches = append(batches, ids)
	}

	results := make([]map[string]string, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(durationWorkers)
	for i, ids := range batches {
		if len(ids) == 0 {
			continue
		}
		g.Go(func() error {
			resp, err := call(gctx, c, "videos.list", func(ctx context.Context) (*yt.VideoListResponse, error) {
				return c.svc.Videos.List([]string{"contentDetails"}).
					Id(ids...).
					Context(ctx).
					Do()
			})
			if err != nil {
				return err
			}
			m := make(map[string]string, len(resp.Items))
			for _, v := range resp.Items {
				if v.ContentDetails != nil {
					m[v.Id] = v.ContentDetails.Duration
				}
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range items {
		batch := results[i/pageSize]
		if batch == nil {
			continue
		}
		items[i].Duration = batch[items[i].VideoID]
	}
	return nil
}

func toCandidate(ch *yt.Channel) model.ChannelCandidate {
	cand := model.ChannelCandidate{ID: ch.Id}
	if ch.Snippet != nil {
		cand.Title = ch.Snippet.Title
		cand.Description = ch.Snippet.Description
		if ch.Snippet.Thumbnails != nil && ch.Snippet.Thumbnails.Default != nil {
			cand.ThumbnailURL = ch.Snippet.Thumbnails.Default.Url
		}
	}
	if st := ch.Statistics; st != nil {
		if !st.HiddenSubscriberCount {
			cand.SubscriberCount = st.SubscriberCount
		}
		cand.VideoCount = st.VideoCount
	}
	return cand
}

func toUploadItem(it *yt.PlaylistItem) model.UploadItem {
	var item model.UploadItem
	if it.Snippet != nil {
		item.Title = it.Snippet.Title
		item.PublishedAt = it.Snippet.PublishedAt
		if it.Snippet.ResourceId != nil {
			item.VideoID = it.Snippet.ResourceId.VideoId
		}
	}
	if cd := it.ContentDetails; cd != nil {
		if cd.VideoId != "" {
			item.VideoID = cd.VideoId
		}
		if cd.VideoPublishedAt != "" {
			item.PublishedAt = cd.VideoPublishedAt
		}
	}
	return item
}
