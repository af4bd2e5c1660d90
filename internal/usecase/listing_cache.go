package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"worklinkph/internal/domain/job"
	"worklinkph/internal/domain/resource"
)

const (
	jobsListPrefix      = "jobs:list:"
	resourcesListPrefix = "resources:list:"
)

// ListingCache is satisfied by cache.Redis; a nil value disables caching.
type ListingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type jobsListCacheKeyInput struct {
	Search   string   `json:"search"`
	Type     string   `json:"type"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

type resourcesListCacheKeyInput struct {
	Search   string `json:"search"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// JobsListCacheKey hashes the normalized filter; equivalent filters share a key.
func JobsListCacheKey(f job.Filter) string {
	f = f.Normalize()
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)

	in := jobsListCacheKeyInput{
		Search:   normalizeSearchValue(f.Search),
		Type:     strings.TrimSpace(f.Type),
		Location: normalizeSearchValue(f.Location),
		Tags:     tags,
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	return jobsListPrefix + hashKey(in)
}

func ResourcesListCacheKey(f resource.Filter) string {
	f = f.Normalize()
	in := resourcesListCacheKeyInput{
		Search:   normalizeSearchValue(f.Search),
		Type:     strings.TrimSpace(f.Type),
		Category: normalizeSearchValue(f.Category),
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	return resourcesListPrefix + hashKey(in)
}

func hashKey(v any) string {
	b, _ := json.Marshal(v)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
