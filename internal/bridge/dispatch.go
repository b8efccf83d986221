// Package bridge implements a thin host-facing command surface:
// initializeIndex, search, updateIndex, getIndexingStatus and
// cancelIndexing, dispatched by name over loosely typed arguments the
// way a JSI or similar host-runtime binding receives them.
package bridge

import (
	"github.com/kurenai-dev/fileindexer/internal/index"
)

// FileMetadataWire is the wire shape returned by search: field names
// are normative for hosts that marshal this struct to JSON or a
// similar host-runtime value representation.
type FileMetadataWire struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Extension    string `json:"extension"`
	Size         uint64 `json:"size"`
	LastModified int64  `json:"lastModified"`
	IsDirectory  bool   `json:"isDirectory"`
}

func toWire(m index.FileMetadata) FileMetadataWire {
	return FileMetadataWire{
		Path:         m.Path,
		Name:         m.Name,
		Extension:    m.Extension,
		Size:         m.Size,
		LastModified: m.LastModified,
		IsDirectory:  m.IsDirectory,
	}
}

// Bridge owns one Engine and exposes it through five named commands.
type Bridge struct {
	engine *index.Engine
}

// New wraps engine for command dispatch.
func New(engine *index.Engine) *Bridge {
	return &Bridge{engine: engine}
}

// Dispatch routes command to the matching handler, extracting
// arguments from args with the same permissiveness a host binding
// typically uses: missing or mistyped search arguments fall back to
// their defaults, while initializeIndex demands a string rootPath and
// returns an *index.ArgumentError otherwise.
func (b *Bridge) Dispatch(command string, args []any) (any, error) {
	switch command {
	case "initializeIndex":
		return b.initializeIndex(args)
	case "search":
		return b.search(args)
	case "updateIndex":
		return b.updateIndex(args)
	case "getIndexingStatus":
		return b.getIndexingStatus(args)
	case "cancelIndexing":
		return b.cancelIndexing(args)
	default:
		return nil, index.NewArgumentError(command, -1, "unknown command")
	}
}

func (b *Bridge) initializeIndex(args []any) (any, error) {
	if len(args) < 1 {
		return nil, index.NewArgumentError("initializeIndex", 0, "missing rootPath argument")
	}
	rootPath, ok := args[0].(string)
	if !ok {
		return nil, index.NewArgumentError("initializeIndex", 0, "rootPath must be a string")
	}

	var opts index.ExcludeOptions
	if len(args) > 1 {
		if extra, ok := args[1].([]string); ok {
			opts.ExtraDirs = extra
		}
	}
	if len(args) > 2 {
		if globs, ok := args[2].([]string); ok {
			opts.GlobPatterns = globs
		}
	}

	if err := b.engine.Initialize(rootPath, opts); err != nil {
		return nil, err
	}
	return 0, nil
}

func (b *Bridge) search(args []any) (any, error) {
	q := index.DefaultQuery()

	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			q.NamePrefix = s
		}
	}
	if len(args) > 1 {
		if s, ok := args[1].(string); ok {
			q.FileType = s
		}
	}
	if len(args) > 2 {
		if v, ok := toUint64(args[2]); ok {
			q.MinSize = v
		}
	}
	if len(args) > 3 {
		if v, ok := toUint64(args[3]); ok {
			q.MaxSize = v
		}
	}
	if len(args) > 4 {
		if v, ok := toInt64(args[4]); ok {
			q.MinDate = v
		}
	}
	if len(args) > 5 {
		if v, ok := toInt64(args[5]); ok {
			q.MaxDate = v
		}
	}

	results := b.engine.Search(q)
	wire := make([]FileMetadataWire, len(results))
	for i, m := range results {
		wire[i] = toWire(m)
	}
	return wire, nil
}

func (b *Bridge) updateIndex(_ []any) (any, error) {
	if err := b.engine.Update(); err != nil {
		return nil, err
	}
	return 0, nil
}

func (b *Bridge) getIndexingStatus(_ []any) (any, error) {
	return b.engine.Progress(), nil
}

func (b *Bridge) cancelIndexing(_ []any) (any, error) {
	b.engine.Cancel()
	return true, nil
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
