package index

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// pathShard is one bucket of the path map / extension map pair. In the
// default unsharded configuration its mu is the very same *sync.RWMutex
// as shardSet.trieMu; the opt-in sharded mode gives each bucket its own
// mutex instead, selected by a hash of the path.
type pathShard struct {
	mu        *sync.RWMutex
	pathMap   map[string]FileMetadata
	extension map[string][]string
}

func newPathShard(mu *sync.RWMutex) *pathShard {
	return &pathShard{
		mu:        mu,
		pathMap:   make(map[string]FileMetadata),
		extension: make(map[string][]string),
	}
}

// shardSet owns the path map / extension map buckets plus the single
// trie root. With the default ShardCount of 1, trieMu and the sole
// shard's mu are the same lock object, so insert holds one critical
// section across the trie write and both map writes: a reader can
// never observe a name in the trie with no corresponding path-map
// entry. Opting into ShardCount>1 splits the maps into independently
// locked buckets and gives the trie its own dedicated lock, since the
// trie cannot be split by path hash without breaking prefix traversal;
// insert then holds the trie lock and the one shard lock together, so
// the same guarantee holds (see insert below).
type shardSet struct {
	shards []*pathShard
	trieMu *sync.RWMutex
	trie   *trieNode
}

func newShardSet(shardCount int) *shardSet {
	if shardCount < 1 {
		shardCount = 1
	}
	ss := &shardSet{trie: newTrieNode()}
	if shardCount == 1 {
		mu := &sync.RWMutex{}
		ss.trieMu = mu
		ss.shards = []*pathShard{newPathShard(mu)}
		return ss
	}
	ss.trieMu = &sync.RWMutex{}
	ss.shards = make([]*pathShard, shardCount)
	for i := range ss.shards {
		ss.shards[i] = newPathShard(&sync.RWMutex{})
	}
	return ss
}

func (ss *shardSet) shardFor(path string) *pathShard {
	if len(ss.shards) == 1 {
		return ss.shards[0]
	}
	h := xxhash.Sum64String(path)
	return ss.shards[h%uint64(len(ss.shards))]
}

// insert atomically adds one file's metadata into the trie, path map
// and extension map.
//
// With the default single shard, trieMu and shard.mu are literally the
// same mutex, so locking it once covers the trie insert and both map
// writes as one critical section.
//
// With ShardCount>1 the trie and the shard map have separate locks;
// insert takes trieMu first, then the path's shard lock, and holds both
// across all three writes. Readers take only one of these locks at a
// time, so a concurrent Search never observes a name in the trie with
// no matching path-map entry. Every insert still serializes on trieMu.
func (ss *shardSet) insert(meta FileMetadata) {
	shard := ss.shardFor(meta.Path)

	if len(ss.shards) == 1 {
		shard.mu.Lock()
		ss.trie.insert(meta.Name, meta.Path)
		shard.pathMap[meta.Path] = meta
		if ext := normalizedExtension(meta.Extension); ext != "" {
			shard.extension[ext] = append(shard.extension[ext], meta.Path)
		}
		shard.mu.Unlock()
		return
	}

	ss.trieMu.Lock()
	shard.mu.Lock()
	ss.trie.insert(meta.Name, meta.Path)
	shard.pathMap[meta.Path] = meta
	if ext := normalizedExtension(meta.Extension); ext != "" {
		shard.extension[ext] = append(shard.extension[ext], meta.Path)
	}
	shard.mu.Unlock()
	ss.trieMu.Unlock()
}

// lookupPath returns the metadata for path, the sole read-through
// authority used by the query planner's filter stage.
func (ss *shardSet) lookupPath(path string) (FileMetadata, bool) {
	shard := ss.shardFor(path)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	m, ok := shard.pathMap[path]
	return m, ok
}

// extensionCandidates returns a copy of the path list stored under
// the normalized extension key.
func (ss *shardSet) extensionCandidates(fileType string) []string {
	key := normalizedExtension(fileType)
	if key == "" {
		return nil
	}
	if len(ss.shards) == 1 {
		shard := ss.shards[0]
		shard.mu.RLock()
		defer shard.mu.RUnlock()
		paths := ss.shards[0].extension[key]
		out := make([]string, len(paths))
		copy(out, paths)
		return out
	}

	var out []string
	for _, shard := range ss.shards {
		shard.mu.RLock()
		out = append(out, shard.extension[key]...)
		shard.mu.RUnlock()
	}
	return out
}

// prefixCandidates returns every path under the trie prefix lookup.
//
// With a single shard this locks the same mutex insert uses for both
// the trie and the maps, so a prefix lookup can never interleave with
// a half-applied insert. With ShardCount>1 it locks the trie's own
// dedicated lock, which insert holds for the whole of each insertion.
func (ss *shardSet) prefixCandidates(prefix string) []string {
	if len(ss.shards) == 1 {
		shard := ss.shards[0]
		shard.mu.RLock()
		defer shard.mu.RUnlock()
		return ss.trie.lookupPrefix(prefix)
	}
	ss.trieMu.RLock()
	defer ss.trieMu.RUnlock()
	return ss.trie.lookupPrefix(prefix)
}

// arbitraryPaths returns up to limit entries from the path map, in
// shard-ascending order, for the no-filter candidate branch. The
// selection among a shard's own entries follows Go map iteration
// order, which is unspecified; the caller sorts the final metadata by
// name regardless.
func (ss *shardSet) arbitraryPaths(limit int) []string {
	var out []string
	for _, shard := range ss.shards {
		shard.mu.RLock()
		for path := range shard.pathMap {
			out = append(out, path)
			if len(out) >= limit {
				shard.mu.RUnlock()
				return out
			}
		}
		shard.mu.RUnlock()
	}
	return out
}
