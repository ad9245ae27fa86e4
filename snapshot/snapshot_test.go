package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shipathon "github.com/nakshatramandowara/Shipathon"
)

var testEvents = []shipathon.EventRecord{
	{ID: "1", Title: "Robotics Workshop", Location: "Engineering Building",
		Summary: "Build robots", TargetAudience: "Students"},
	{ID: "2", Title: "Painting Exhibition", Location: "Gallery",
		Summary: "Watercolor paintings", TargetAudience: "Art lovers", Tags: []string{"art"}},
}

func TestNewStoreErrors(t *testing.T) {
	_, err := NewStore(StoreType("bogus"))
	assert.ErrorIs(t, err, shipathon.ErrInvalidStoreType)

	_, err = NewStore(StoreTypeRedis) // no client
	assert.ErrorIs(t, err, shipathon.ErrInvalidConfig)

	_, err = NewStore(StoreTypeFile) // no directory
	assert.ErrorIs(t, err, shipathon.ErrInvalidConfig)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Latest(ctx, "dana")
	require.NoError(t, err)
	assert.Nil(t, got, "no snapshot yet is not an error")

	require.NoError(t, store.Save(ctx, "dana", testEvents))
	got, err = store.Latest(ctx, "dana")
	require.NoError(t, err)
	assert.Equal(t, testEvents, got)

	// last write wins
	require.NoError(t, store.Save(ctx, "dana", testEvents[:1]))
	got, err = store.Latest(ctx, "dana")
	require.NoError(t, err)
	assert.Equal(t, testEvents[:1], got)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(StoreTypeFile, WithDir(dir))
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Latest(ctx, "dana")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Save(ctx, "dana", testEvents))
	got, err = store.Latest(ctx, "dana")
	require.NoError(t, err)
	assert.Equal(t, testEvents, got)

	// the snapshot is a plain JSON file for offline inspection
	data, err := os.ReadFile(filepath.Join(dir, "dana.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Robotics Workshop")
}

func TestFileStoreSanitizesUserName(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(StoreTypeFile, WithDir(dir))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, "../escape/attempt", testEvents))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "the snapshot must land inside the configured directory")

	got, err := store.Latest(ctx, "../escape/attempt")
	require.NoError(t, err)
	assert.Equal(t, testEvents, got)
}
