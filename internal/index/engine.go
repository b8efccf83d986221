// Package index implements a concurrent directory-indexing pipeline
// and query engine: a bounded worker pool cooperatively walking a
// shared work queue into three shared indices (name trie, path map,
// extension map), publishing atomic progress/cancellation state while
// search queries may run against a partially built index.
package index

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
)

const minWorkers = 4

// ExcludeOptions configures the exclude matcher built for each pass.
type ExcludeOptions struct {
	// ExtraDirs are absolute directory prefixes to skip, in addition
	// to the built-in noise-directory defaults.
	ExtraDirs []string
	// GlobPatterns are gitignore-style patterns to skip.
	GlobPatterns []string
}

// Engine is the embeddable indexing/search engine. The zero value is
// not usable; construct with New.
type Engine struct {
	cfg Config
	log *logger

	// lifecycle is held across the whole span of Initialize/Cancel to
	// serialize start/stop transitions; it is never held while a
	// worker performs I/O or while Search runs.
	lifecycle sync.Mutex

	root    string
	exclude ExcludeOptions

	ss             *shardSet
	q              *workQueue
	excludeMatcher *excludeMatcher
	wg             conc.WaitGroup
	passDone       chan struct{}

	dirsQueued  int64
	dirsDrained int64

	isIndexing   atomic.Bool
	cancelled    atomic.Bool
	progressBits atomic.Uint64
	generation   atomic.Value // uuid.UUID
}

// New constructs an Engine with empty indices, progress 0, and no
// indexing pass running.
func New(cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	e.log = newLogger(cfg.LogDir, parseLogLevel(cfg.LogLevel))
	e.ss = newShardSet(1)
	e.generation.Store(uuid.Nil)
	return e
}

// Close cancels any running pass, joins workers, and closes the
// logger.
func (e *Engine) Close() error {
	e.Cancel()
	return e.log.close()
}

// Initialize clears indices, seeds the work queue with root, spawns
// the worker pool, and returns immediately. If a pass is already
// running it is cancelled and joined first.
func (e *Engine) Initialize(root string, opts ExcludeOptions) error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.cancelRunningPassLocked()

	e.root = root
	e.exclude = opts

	shardCount := e.cfg.ShardCount
	if shardCount < 1 {
		shardCount = 1
	}
	e.ss = newShardSet(shardCount)
	e.q = newWorkQueue(root, e.workerCount())
	e.excludeMatcher = newExcludeMatcher(root, opts.ExtraDirs, opts.GlobPatterns)

	atomic.StoreInt64(&e.dirsQueued, 1)
	atomic.StoreInt64(&e.dirsDrained, 0)
	e.storeProgressExact(0)
	e.cancelled.Store(false)
	e.isIndexing.Store(true)

	gen := uuid.New()
	e.generation.Store(gen)
	fingerprint := xxhash.Sum64String(root)
	e.log.log(logInfo, "starting indexing pass %s for root %s (fingerprint %x)", gen, root, fingerprint)

	workers := e.workerCount()
	e.wg = conc.WaitGroup{}
	for i := 0; i < workers; i++ {
		e.wg.Go(e.worker)
	}

	passDone := make(chan struct{})
	e.passDone = passDone
	go e.awaitCompletion(passDone)

	return nil
}

// awaitCompletion runs on its own goroutine so Initialize can return
// immediately; it joins the worker pool and finalizes progress once
// every worker has exited via the termination witness or cancel(),
// then signals passDone so a concurrent Cancel() can safely reset the
// cancellation flag without racing this finalization.
func (e *Engine) awaitCompletion(passDone chan struct{}) {
	defer close(passDone)
	defer func() {
		if r := recover(); r != nil {
			e.log.log(logError, "panic while joining indexing workers: %v", r)
		}
	}()
	e.wg.Wait()
	wasCancelled := e.cancelled.Load()
	if !wasCancelled {
		e.storeProgressExact(1.0)
	}
	e.isIndexing.Store(false)
}

func (e *Engine) workerCount() int {
	if e.cfg.MaxWorkers > 0 {
		return e.cfg.MaxWorkers
	}
	n := runtime.NumCPU()
	if n < minWorkers {
		return minWorkers
	}
	return n
}

// Search runs the query planner and filter against whatever has been
// indexed by the time each shard lock is held.
func (e *Engine) Search(q Query) []FileMetadata {
	return search(e.ss, q)
}

// Update is equivalent to Initialize(previousRoot, previousOpts): a
// full re-index.
func (e *Engine) Update() error {
	e.lifecycle.Lock()
	root := e.root
	opts := e.exclude
	e.lifecycle.Unlock()
	if root == "" {
		return fmt.Errorf("index: update called before initialize")
	}
	return e.Initialize(root, opts)
}

// Progress returns the monotone progress scalar for the current or
// most recent pass.
func (e *Engine) Progress() float64 {
	return float64FromBits(e.progressBits.Load())
}

// IsIndexing reports whether a pass is currently running.
func (e *Engine) IsIndexing() bool {
	return e.isIndexing.Load()
}

// Generation returns the UUID of the most recently started pass.
func (e *Engine) Generation() uuid.UUID {
	if g, ok := e.generation.Load().(uuid.UUID); ok {
		return g
	}
	return uuid.Nil
}

// Cancel requests cancellation, wakes every worker, and blocks until
// all workers have joined. Calling Cancel when not indexing is a
// no-op.
func (e *Engine) Cancel() {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	e.cancelRunningPassLocked()
}

func (e *Engine) cancelRunningPassLocked() {
	if e.q == nil || !e.isIndexing.Load() {
		return
	}
	e.cancelled.Store(true)
	e.q.cancel()
	// Wait for the same goroutine that will finalize progress/isIndexing
	// to observe termination, so resetting cancelled below can never
	// race awaitCompletion's read of it.
	<-e.passDone
	e.cancelled.Store(false)
}

func (e *Engine) refreshProgress() {
	queued := atomic.LoadInt64(&e.dirsQueued)
	drained := atomic.LoadInt64(&e.dirsDrained)
	if queued <= 0 {
		return
	}
	ratio := float64(drained) / float64(queued)
	if ratio >= 1.0 {
		ratio = 0.999999
	}
	e.storeProgress(ratio)
}
