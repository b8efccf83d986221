package index

import (
	"os"
	"path/filepath"
	"sync/atomic"
)

// worker pops a directory, walks its entries, pushes subdirectories,
// ingests files, and repeats until popOrExit reports termination or
// cancellation.
func (e *Engine) worker() {
	for {
		dir, ok := e.q.popOrExit()
		if !ok {
			return
		}
		e.visitDirectory(dir)
		atomic.AddInt64(&e.dirsDrained, 1)
		e.refreshProgress()
	}
}

func (e *Engine) visitDirectory(dir string) {
	if e.excludeMatcher.shouldSkip(dir) {
		e.log.log(logDebug, "skipping excluded directory: %s", dir)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Transient I/O error on a directory is swallowed and the
		// entry is skipped.
		e.log.log(logError, "failed to read directory %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		if e.q.isCancelled() {
			return
		}

		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if e.excludeMatcher.shouldSkip(path) {
				continue
			}
			atomic.AddInt64(&e.dirsQueued, 1)
			e.q.push(path)
			continue
		}

		if !entry.Type().IsRegular() {
			// Symlinks, sockets, devices: not indexed. Following
			// symlinks is an explicit non-goal.
			continue
		}

		if e.excludeMatcher.shouldSkip(path) {
			continue
		}

		e.ss.insert(e.fileMetadata(path, entry))
	}
}

func (e *Engine) fileMetadata(path string, entry os.DirEntry) FileMetadata {
	name := entry.Name()
	meta := FileMetadata{
		Path:      path,
		Name:      name,
		Extension: extensionOf(name),
	}

	info, err := entry.Info()
	if err != nil {
		// Metadata unobtainable: still indexed, searchable by name and
		// extension.
		e.log.log(logDebug, "metadata unobtainable for %s: %v", path, err)
		return meta
	}
	meta.Size = uint64(info.Size())
	meta.LastModified = unixSeconds(info.ModTime())
	return meta
}
