package bridge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurenai-dev/fileindexer/internal/index"
)

func newTestBridge(t *testing.T) (*Bridge, *index.Engine) {
	t.Helper()
	cfg := index.DefaultConfig()
	cfg.LogDir = t.TempDir()
	engine := index.New(cfg)
	t.Cleanup(func() { engine.Close() })
	return New(engine), engine
}

func waitUntilIndexed(t *testing.T, engine *index.Engine) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for engine.IsIndexing() {
		if time.Now().After(deadline) {
			t.Fatal("indexing pass never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	b, _ := newTestBridge(t)
	_, err := b.Dispatch("doesNotExist", nil)
	require.Error(t, err)
	var argErr *index.ArgumentError
	assert.ErrorAs(t, err, &argErr)
}

func TestDispatchInitializeIndexMissingArgument(t *testing.T) {
	b, _ := newTestBridge(t)
	_, err := b.Dispatch("initializeIndex", nil)
	require.Error(t, err)
	var argErr *index.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "initializeIndex", argErr.Command)
}

func TestDispatchInitializeIndexWrongType(t *testing.T) {
	b, _ := newTestBridge(t)
	_, err := b.Dispatch("initializeIndex", []any{42})
	require.Error(t, err)
	var argErr *index.ArgumentError
	assert.ErrorAs(t, err, &argErr)
}

func TestDispatchInitializeIndexAndSearchRoundTrip(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "report.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("x"), 0o644))

	b, engine := newTestBridge(t)
	_, err := b.Dispatch("initializeIndex", []any{root})
	require.NoError(t, err)
	waitUntilIndexed(t, engine)

	result, err := b.Dispatch("search", []any{"rep"})
	require.NoError(t, err)
	matches := result.([]FileMetadataWire)
	require.Len(t, matches, 1)
	assert.Equal(t, "report.txt", matches[0].Name)
}

func TestDispatchSearchWithMistypedArgumentsFallsBackToDefaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	b, engine := newTestBridge(t)
	_, err := b.Dispatch("initializeIndex", []any{root})
	require.NoError(t, err)
	waitUntilIndexed(t, engine)

	// minSize/maxSize/minDate/maxDate all wrong-typed: should fall back
	// to the unfiltered defaults rather than erroring.
	result, err := b.Dispatch("search", []any{"", "", "not-a-number", true, nil, []int{1}})
	require.NoError(t, err)
	matches := result.([]FileMetadataWire)
	assert.Len(t, matches, 1)
}

func TestDispatchGetIndexingStatusReturnsProgress(t *testing.T) {
	b, _ := newTestBridge(t)
	result, err := b.Dispatch("getIndexingStatus", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result)
}

func TestDispatchCancelIndexingIsSafeWhenIdle(t *testing.T) {
	b, _ := newTestBridge(t)
	result, err := b.Dispatch("cancelIndexing", nil)
	require.NoError(t, err)
	assert.Equal(t, true, result)
}

func TestDispatchUpdateIndexBeforeInitializeErrors(t *testing.T) {
	b, _ := newTestBridge(t)
	_, err := b.Dispatch("updateIndex", nil)
	assert.Error(t, err)
}
