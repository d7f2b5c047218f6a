package seen_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bike-hunter/internal/seen"
)

func openCache(t *testing.T, opts ...seen.Option) *seen.Cache {
	t.Helper()
	c, err := seen.Open("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_MarkAndSeen(t *testing.T) {
	t.Parallel()

	c := openCache(t)
	const url = "https://www.kleinanzeigen.de/s-anzeige/canyon/1"

	got, err := c.Seen(url)
	require.NoError(t, err)
	assert.False(t, got)

	require.NoError(t, c.Mark(url))

	got, err = c.Seen(url)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = c.Seen(url + "0")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCache_Forget(t *testing.T) {
	t.Parallel()

	c := openCache(t)
	require.NoError(t, c.Mark("a"))
	require.NoError(t, c.Forget("a"))

	got, err := c.Seen("a")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCache_Expires(t *testing.T) {
	t.Parallel()

	c := openCache(t, seen.WithTTL(time.Second))
	require.NoError(t, c.Mark("b"))

	assert.Eventually(t, func() bool {
		got, err := c.Seen("b")
		return err == nil && !got
	}, 5*time.Second, 100*time.Millisecond)
}

func TestCache_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, err := seen.Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Mark("c"))
	require.NoError(t, c.Close())

	c, err = seen.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	got, err := c.Seen("c")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCache_Compact(t *testing.T) {
	t.Parallel()

	mem := openCache(t)
	require.NoError(t, mem.Compact())

	disk, err := seen.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = disk.Close() })
	require.NoError(t, disk.Mark("https://example.com/a"))
	require.NoError(t, disk.Compact())
}
