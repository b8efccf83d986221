package index

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleMeta(path, name, ext string, size uint64) FileMetadata {
	return FileMetadata{Path: path, Name: name, Extension: ext, Size: size}
}

func TestShardSetInsertAndLookupPath(t *testing.T) {
	ss := newShardSet(1)
	meta := sampleMeta("/a/report.txt", "report.txt", ".txt", 100)
	ss.insert(meta)

	got, ok := ss.lookupPath("/a/report.txt")
	assert.True(t, ok)
	assert.Equal(t, meta, got)

	_, ok = ss.lookupPath("/a/missing.txt")
	assert.False(t, ok)
}

func TestShardSetExtensionCandidates(t *testing.T) {
	ss := newShardSet(1)
	ss.insert(sampleMeta("/a/one.txt", "one.txt", ".txt", 1))
	ss.insert(sampleMeta("/a/two.TXT", "two.TXT", ".TXT", 2))
	ss.insert(sampleMeta("/a/three.go", "three.go", ".go", 3))

	got := ss.extensionCandidates("txt")
	sort.Strings(got)
	assert.Equal(t, []string{"/a/one.txt", "/a/two.TXT"}, got)

	assert.Empty(t, ss.extensionCandidates("md"))
	assert.Empty(t, ss.extensionCandidates(""))
}

func TestShardSetPrefixCandidates(t *testing.T) {
	ss := newShardSet(1)
	ss.insert(sampleMeta("/a/report.txt", "report.txt", ".txt", 1))
	ss.insert(sampleMeta("/a/readme.md", "readme.md", ".md", 2))

	got := ss.prefixCandidates("rep")
	assert.Equal(t, []string{"/a/report.txt"}, got)
}

func TestShardSetArbitraryPathsRespectsLimit(t *testing.T) {
	ss := newShardSet(4)
	for i := 0; i < 50; i++ {
		path := fmt.Sprintf("/a/file%d.txt", i)
		ss.insert(sampleMeta(path, fmt.Sprintf("file%d.txt", i), ".txt", 1))
	}

	got := ss.arbitraryPaths(10)
	assert.Len(t, got, 10)
}

func TestShardSetShardingIsConsistentAcrossShardCounts(t *testing.T) {
	// Whatever shard a path hashes into, insert then lookupPath must
	// agree on it regardless of shard count.
	for _, shardCount := range []int{1, 2, 8} {
		ss := newShardSet(shardCount)
		meta := sampleMeta("/x/y/z.bin", "z.bin", ".bin", 7)
		ss.insert(meta)
		got, ok := ss.lookupPath("/x/y/z.bin")
		assert.True(t, ok, "shardCount=%d", shardCount)
		assert.Equal(t, meta, got, "shardCount=%d", shardCount)
	}
}

func TestShardSetExtensionCandidatesAggregatesAcrossShards(t *testing.T) {
	ss := newShardSet(8)
	for i := 0; i < 30; i++ {
		path := fmt.Sprintf("/a/file%d.log", i)
		ss.insert(sampleMeta(path, fmt.Sprintf("file%d.log", i), ".log", 1))
	}

	got := ss.extensionCandidates("log")
	assert.Len(t, got, 30)
}
