package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

// Cache lookup kinds, used as the "kind" label on the lookup counter.
const (
	cacheKindSearch  = "search"
	cacheKindChannel = "channel"
	cacheKindUploads = "uploads"
)

// CachedDirectory decorates a ChannelDirectory with Redis cache-aside.
// Cache failures are logged and bypassed; errors from the wrapped
// directory are never cached.
type CachedDirectory struct {
	next    ChannelDirectory
	cache   *CacheService
	lookups *prometheus.CounterVec // labels: kind, result; may be nil
}

// NewCachedDirectory wraps next. lookups, when non-nil, must carry the
// labels "kind" and "result".
func NewCachedDirectory(next ChannelDirectory, cache *CacheService, lookups *prometheus.CounterVec) *CachedDirectory {
	return &CachedDirectory{next: next, cache: cache, lookups: lookups}
}

func (d *CachedDirectory) SearchCandidates(ctx context.Context, query string, limit int) ([]model.ChannelCandidate, error) {
	return cached(ctx, d, cacheKindSearch, searchKey(query, limit), SearchCacheTTL, func() ([]model.ChannelCandidate, error) {
		return d.next.SearchCandidates(ctx, query, limit)
	})
}

func (d *CachedDirectory) LookupChannel(ctx context.Context, channelID string) (model.ChannelCandidate, error) {
	return cached(ctx, d, cacheKindChannel, channelKey(channelID), ChannelCacheTTL, func() (model.ChannelCandidate, error) {
		return d.next.LookupChannel(ctx, channelID)
	})
}

func (d *CachedDirectory) FetchUploads(ctx context.Context, channelID string) ([]model.UploadItem, error) {
	return cached(ctx, d, cacheKindUploads, uploadsKey(channelID), UploadsCacheTTL, func() ([]model.UploadItem, error) {
		return d.next.FetchUploads(ctx, channelID)
	})
}

func cached[T any](ctx context.Context, d *CachedDirectory, kind, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if d.cache.Enabled() {
		var v T
		hit, err := d.cache.GetJSON(ctx, key, &v)
		if err != nil {
			log.Warn().Err(err).Str("kind", kind).Msg("cache: get failed")
		}
		if hit {
			d.observe(kind, "hit")
			return v, nil
		}
		d.observe(kind, "miss")
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if err := d.cache.SetJSON(ctx, key, v, ttl); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("cache: set failed")
	}
	return v, nil
}

func (d *CachedDirectory) observe(kind, result string) {
	if d.lookups != nil {
		d.lookups.WithLabelValues(kind, result).Inc()
	}
}
