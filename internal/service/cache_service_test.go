package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(context.Context, string, interface{}) error {
	return errors.New("redis down")
}

func (failingCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis down")
}

func (failingCacheRepo) DeleteByPattern(context.Context, string) error {
	return errors.New("redis down")
}

func TestRememberLoadsOnceUntilInvalidated(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(newMemoryCacheRepo(), metrics, time.Minute, nil, true)
	ctx := context.Background()
	key := cacheKey(examPaperCacheScope+":list", "PHY101", 1)

	loads := 0
	load := func() ([]string, error) {
		loads++
		return []string{"mechanics"}, nil
	}

	first, err := remember(ctx, cache, key, load)
	require.NoError(t, err)
	second, err := remember(ctx, cache, key, load)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)

	cache.InvalidateScope(ctx, examPaperCacheScope)
	_, err = remember(ctx, cache, key, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)

	snap := metrics.Snapshot()
	assert.EqualValues(t, 1, snap.CacheHits)
	assert.EqualValues(t, 2, snap.CacheMisses)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	ctx := context.Background()

	_, err := remember(ctx, cache, "k", func() (int, error) { return 0, errors.New("db down") })
	require.Error(t, err)

	v, err := remember(ctx, cache, "k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestRememberPassesThroughWhenCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	for name, cache := range map[string]*CacheService{
		"nil":      nil,
		"disabled": NewCacheService(newMemoryCacheRepo(), nil, 0, nil, false),
		"failing":  NewCacheService(failingCacheRepo{}, nil, 0, nil, true),
	} {
		t.Run(name, func(t *testing.T) {
			loads := 0
			for i := 0; i < 2; i++ {
				v, err := remember(ctx, cache, "k", func() (string, error) {
					loads++
					return "fresh", nil
				})
				require.NoError(t, err)
				assert.Equal(t, "fresh", v)
			}
			assert.Equal(t, 2, loads)
			cache.InvalidateScope(ctx, catalogCacheScope)
		})
	}
}

func TestCacheKeyIsScopedAndStable(t *testing.T) {
	a := cacheKey("catalog:subjects", "first")
	assert.Equal(t, a, cacheKey("catalog:subjects", "first"))
	assert.NotEqual(t, a, cacheKey("catalog:subjects", "second"))
	assert.Regexp(t, `^catalog:subjects:[0-9a-f]{40}$`, a)
}
