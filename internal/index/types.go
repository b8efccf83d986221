package index

import (
	"time"

	"github.com/google/uuid"
)

// FileMetadata is the value type produced by the walker and returned
// by Search. It is the canonical record stored in the path map.
type FileMetadata struct {
	Path         string
	Name         string
	Extension    string
	Size         uint64
	LastModified int64
	IsDirectory  bool
}

// Status is a snapshot of engine progress, safe to read without
// taking the index lock.
type Status struct {
	IsIndexing bool
	Progress   float64
	Generation uuid.UUID
}

const (
	// DefaultMaxSize is the sentinel upper bound for size filters when
	// the host omits maxSize.
	DefaultMaxSize = ^uint64(0)
	// DefaultMaxDate is the sentinel upper bound for date filters when
	// the host omits maxDate.
	DefaultMaxDate = int64(1<<63 - 1)
	// noFilterCap bounds the no-filter candidate scan.
	noFilterCap = 1000
)

// Query bundles the six search parameters a host can pass to Search.
type Query struct {
	NamePrefix string
	FileType   string
	MinSize    uint64
	MaxSize    uint64
	MinDate    int64
	MaxDate    int64
}

// DefaultQuery returns the query applied when the host omits an
// argument.
func DefaultQuery() Query {
	return Query{
		MinSize: 0,
		MaxSize: DefaultMaxSize,
		MinDate: 0,
		MaxDate: DefaultMaxDate,
	}
}

func (q Query) isUnfiltered() bool {
	return q.NamePrefix == "" && q.FileType == "" &&
		q.MinSize == 0 && q.MaxSize == DefaultMaxSize &&
		q.MinDate == 0 && q.MaxDate == DefaultMaxDate
}

// normalizedExtension lower-cases ext and strips a single leading dot.
// The empty string is returned for an empty input.
func normalizedExtension(ext string) string {
	ext = asciiLower(ext)
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	return ext
}

// extensionOf returns the final dot-suffix of name, including the
// dot, or "" if name has no dot.
func extensionOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
		if name[i] == '/' || name[i] == '\\' {
			break
		}
	}
	return ""
}

func unixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
