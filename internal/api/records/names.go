package records

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"heritage-gallery/internal/logging"
)

// NameCache resolves uploader display names by user id and keeps them for a
// few minutes.
type NameCache struct {
	store Store
	cache *cache.Cache
	log   logging.Logger
}

func NewNameCache(store Store, ttl time.Duration, log logging.Logger) *NameCache {
	return &NameCache{
		store: store,
		cache: cache.New(ttl, 2*ttl),
		log:   log,
	}
}

// Resolve returns names for ids it could find. A store failure is logged and
// yields whatever was cached.
func (n *NameCache) Resolve(ctx context.Context, ids []uint) map[uint]string {
	out := make(map[uint]string, len(ids))
	var misses []uint
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if x, found := n.cache.Get(cacheKey(id)); found {
			out[id] = x.(string)
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out
	}

	fetched, err := n.store.DisplayNames(ctx, misses)
	if err != nil {
		n.log.Warn(ctx, "resolve uploader names", "error", err, "ids", len(misses))
		return out
	}
	for id, name := range fetched {
		n.cache.Set(cacheKey(id), name, cache.DefaultExpiration)
		out[id] = name
	}
	return out
}

func cacheKey(id uint) string {
	return "user:" + strconv.FormatUint(uint64(id), 10)
}
