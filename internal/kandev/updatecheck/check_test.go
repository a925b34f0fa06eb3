package updatecheck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdlbs/kandev/internal/core/kv"
)

func cacheRelease(t *testing.T, store kv.KV, tag string) {
	t.Helper()
	cache := kv.Scoped[ReleaseInfo](store, cacheNamespace)
	err := cache.SetTTL(context.Background(), cacheKey, ReleaseInfo{TagName: tag}, cacheTTL)
	require.NoError(t, err)
}

func withStubbedFetch(t *testing.T) *int {
	t.Helper()
	calls := 0
	prevFetch := fetchLatestReleaseJSON
	fetchLatestReleaseJSON = func(context.Context) ([]byte, error) {
		calls++
		return []byte(`{"tag_name":"v9.9.9"}`), nil
	}
	t.Cleanup(func() {
		fetchLatestReleaseJSON = prevFetch
	})
	return &calls
}

func TestCheck_SkipsDevAndEmptyVersions(t *testing.T) {
	for _, version := range []string{"dev", "", "not-semver"} {
		result, err := Check(context.Background(), kv.NewMemory(), version)
		require.NoError(t, err)
		assert.Nil(t, result, "version %q", version)
	}
}

func TestCheck_NilStore(t *testing.T) {
	result, err := Check(context.Background(), nil, "v1.0.0")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheck_UpdateAvailable(t *testing.T) {
	store := kv.NewMemory()
	cacheRelease(t, store, "v2.0.0")
	lookups := withStubbedFetch(t)

	result, err := Check(context.Background(), store, "v1.0.0")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "v1.0.0", result.Current)
	assert.Equal(t, "v2.0.0", result.Latest)
	assert.Equal(t, 0, *lookups, "cached release should avoid the network")
}

func TestCheck_CurrentIsLatest(t *testing.T) {
	store := kv.NewMemory()
	cacheRelease(t, store, "v1.3.0")

	result, err := Check(context.Background(), store, "v1.3.0")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheck_CurrentIsNewer(t *testing.T) {
	store := kv.NewMemory()
	cacheRelease(t, store, "v1.0.0")

	result, err := Check(context.Background(), store, "v2.0.0")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheck_NormalizesVersionPrefix(t *testing.T) {
	store := kv.NewMemory()
	cacheRelease(t, store, "v1.3.0")

	result, err := Check(context.Background(), store, "1.2.3")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "v1.2.3", result.Current)
	assert.Equal(t, "v1.3.0", result.Latest)
}

func TestCheck_FetchOnCacheMiss(t *testing.T) {
	store := kv.NewMemory()
	lookups := withStubbedFetch(t)

	result, err := Check(context.Background(), store, "v1.0.0")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "v9.9.9", result.Latest)
	assert.Equal(t, 1, *lookups)

	// second call hits the cache written by the first
	result, err = Check(context.Background(), store, "v1.0.0")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, *lookups)
}

func TestCheck_InvalidCachedTag(t *testing.T) {
	store := kv.NewMemory()
	cache := kv.Scoped[ReleaseInfo](store, cacheNamespace)
	err := cache.SetTTL(context.Background(), cacheKey, ReleaseInfo{TagName: "not-semver"}, time.Hour)
	require.NoError(t, err)

	result, checkErr := Check(context.Background(), store, "v1.0.0")
	require.NoError(t, checkErr)
	assert.Nil(t, result)
}
