package thermo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEngine wraps ReferenceEngine and counts flash calls.
type countingEngine struct {
	ReferenceEngine
	calls int
}

func (e *countingEngine) FlashPT(f Fluid, p, t float64) (Stream, error) {
	e.calls++
	return e.ReferenceEngine.FlashPT(f, p, t)
}

func (e *countingEngine) FlashPH(f Fluid, p, h float64) (Stream, error) {
	e.calls++
	return e.ReferenceEngine.FlashPH(f, p, h)
}

func newTestCache(t *testing.T) (*FlashCache, *countingEngine) {
	t.Helper()
	inner := &countingEngine{}
	cache, err := NewFlashCache(inner, t.TempDir()+"/flash.db")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, inner
}

func TestFlashCache_MemoizesRepeatedFlashes(t *testing.T) {
	cache, inner := newTestCache(t)

	first, err := cache.FlashPT(testGas, 50, 300)
	require.NoError(t, err)
	second, err := cache.FlashPT(testGas, 50, 300)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "second flash served from cache")
	assert.Equal(t, first, second)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestFlashCache_DistinguishesFlashKinds(t *testing.T) {
	cache, inner := newTestCache(t)

	_, err := cache.FlashPT(testGas, 50, 300)
	require.NoError(t, err)
	_, err = cache.FlashPH(testGas, 50, 300)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "PT and PH at identical keys are distinct entries")
}

func TestFlashCache_ResultsMatchWrappedEngine(t *testing.T) {
	cache, _ := newTestCache(t)
	plain := ReferenceEngine{}

	for i := 0; i < 3; i++ {
		p := 20 + float64(i)*15
		cached, err := cache.FlashPT(testGas, p, 310)
		require.NoError(t, err)
		direct, err := plain.FlashPT(testGas, p, 310)
		require.NoError(t, err)
		assert.Equal(t, direct, cached)
	}
}

func TestFlashCache_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/flash.db"

	inner1 := &countingEngine{}
	cache1, err := NewFlashCache(inner1, path)
	require.NoError(t, err)
	_, err = cache1.FlashPT(testGas, 40, 290)
	require.NoError(t, err)
	require.NoError(t, cache1.Close())

	inner2 := &countingEngine{}
	cache2, err := NewFlashCache(inner2, path)
	require.NoError(t, err)
	defer cache2.Close()
	_, err = cache2.FlashPT(testGas, 40, 290)
	require.NoError(t, err)

	assert.Equal(t, 0, inner2.calls, "entry survives reopen")
}

func TestFlashCache_CloseIsIdempotent(t *testing.T) {
	cache, _ := newTestCache(t)
	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close())
}

func TestFlashCache_ErrorsPassThrough(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.FlashPT(testGas, -5, 300)
	require.Error(t, err)
	assert.Contains(t, fmt.Sprint(err), "pressure")
}
