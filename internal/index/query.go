package index

import "sort"

// search runs candidate selection, filtering, and sorting against a
// quiescent-or-partial snapshot of ss.
func search(ss *shardSet, q Query) []FileMetadata {
	var candidates []string

	switch {
	case q.isUnfiltered():
		candidates = ss.arbitraryPaths(noFilterCap)
	case q.NamePrefix != "":
		candidates = ss.prefixCandidates(q.NamePrefix)
	case q.FileType != "":
		candidates = ss.extensionCandidates(q.FileType)
	default:
		// Size- or date-only queries are not served by any
		// acceleration structure; this is a known sharp edge, not a bug.
		candidates = nil
	}

	normalizedType := normalizedExtension(q.FileType)

	results := make([]FileMetadata, 0, len(candidates))
	for _, path := range candidates {
		meta, ok := ss.lookupPath(path)
		if !ok {
			continue
		}
		if meta.Size < q.MinSize || meta.Size > q.MaxSize {
			continue
		}
		if meta.LastModified < q.MinDate || meta.LastModified > q.MaxDate {
			continue
		}
		if normalizedType != "" && normalizedExtension(meta.Extension) != normalizedType {
			continue
		}
		results = append(results, meta)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results
}
