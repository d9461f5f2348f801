package analyzer

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type Options struct {
	Concurrent    int    // worker cap; <= 0 means runtime.NumCPU()
	Output        string // written by Start after the barrier; empty skips writing
	ProgressEvery int64  // lines between intermediate updates; 0 keeps the default

	// Root, when set, makes display names relative to it instead of the
	// base name. Without it, files sharing a base name are shown by path.
	Root string
}

// Run is the state of one scan. It is created per invocation and shared by
// reference with the workers and the renderer; nothing here is global.
type Run struct {
	ID string

	fs      afero.Fs
	opts    Options
	log     logrus.FieldLogger
	store   *StatusStore
	set     *UniqueSet
	scanner *Scanner
}

func NewRun(fs afero.Fs, opts Options, log logrus.FieldLogger) *Run {
	if opts.Concurrent <= 0 {
		opts.Concurrent = runtime.NumCPU()
	}
	id := uuid.NewString()
	log = log.WithField("run_id", id)

	store := NewStatusStore()
	set := NewUniqueSet()
	sc := NewScanner(fs, NewExtractor(), store, log)
	if opts.ProgressEvery > 0 {
		sc.progressEvery = opts.ProgressEvery
	}

	return &Run{
		ID:      id,
		fs:      fs,
		opts:    opts,
		log:     log,
		store:   store,
		set:     set,
		scanner: sc,
	}
}

func (r *Run) Store() *StatusStore { return r.store }
func (r *Run) Set() *UniqueSet     { return r.set }

// Scan dispatches one scan per file with at most opts.Concurrent in flight
// and returns once every file has reached a terminal state.
func (r *Run) Scan(files []string) Summary {
	started := time.Now()
	r.log.WithFields(logrus.Fields{
		"files":   len(files),
		"workers": r.opts.Concurrent,
	}).Info("scan started")

	type job struct{ path, name string }

	var (
		wg    sync.WaitGroup
		lines atomic.Int64
	)

	pool, err := ants.NewPoolWithFunc(r.opts.Concurrent, func(arg interface{}) {
		defer wg.Done()
		j := arg.(job)
		local, n := r.scanner.ScanFile(j.path, j.name)
		r.set.Merge(local)
		lines.Add(n)
	})
	if err != nil {
		// only reachable with an invalid size, which NewRun rules out
		panic(fmt.Sprintf("analyzer: worker pool: %v", err))
	}

	// register everything first so queued files are visible as Pending
	names := r.displayNames(files)
	seen := make(map[string]struct{}, len(files))
	jobs := make([]job, 0, len(files))
	for _, path := range files {
		key := filepath.Clean(path)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		r.store.Register(names[key])
		jobs = append(jobs, job{path: path, name: names[key]})
	}

	for _, j := range jobs {
		wg.Add(1)
		if err := pool.Invoke(j); err != nil {
			r.store.Update(j.name, Failed(err.Error()), 0, 0)
			wg.Done()
		}
	}

	wg.Wait()
	pool.Release()

	sum := r.summary(len(seen), lines.Load(), time.Since(started))
	r.log.WithFields(logrus.Fields{
		"completed": sum.Completed,
		"failed":    sum.Failed,
		"unique":    sum.Unique,
		"elapsed":   sum.Elapsed.String(),
	}).Info("scan finished")
	return sum
}

// Start runs Scan and then writes the output on a separate goroutine. The
// summary is delivered once on the returned channel, which is then closed.
func (r *Run) Start(files []string) <-chan Summary {
	out := make(chan Summary, 1)
	go func() {
		defer close(out)
		sum := r.Scan(files)
		if r.opts.Output != "" {
			sum.Output = r.opts.Output
			sum.Written, sum.Err = WriteSorted(r.fs, r.opts.Output, r.set)
			if sum.Err != nil {
				r.log.WithError(sum.Err).Error("writing output failed")
			}
		}
		out <- sum
	}()
	return out
}

func (r *Run) displayName(path string) string {
	if r.opts.Root != "" {
		if rel, err := filepath.Rel(r.opts.Root, path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(path)
}

// displayNames maps each cleaned path to its record key. Paths whose short
// name would collide with another file's keep their full path instead.
func (r *Run) displayNames(files []string) map[string]string {
	short := make(map[string]string, len(files))
	owners := make(map[string]map[string]struct{}, len(files))
	for _, path := range files {
		key := filepath.Clean(path)
		name := r.displayName(key)
		short[key] = name
		if owners[name] == nil {
			owners[name] = make(map[string]struct{})
		}
		owners[name][key] = struct{}{}
	}

	names := make(map[string]string, len(short))
	for key, name := range short {
		if len(owners[name]) > 1 {
			name = filepath.ToSlash(key)
		}
		names[key] = name
	}
	return names
}

func (r *Run) summary(files int, lines int64, elapsed time.Duration) Summary {
	var failed int
	for _, rec := range r.store.Records() {
		if rec.Status.State == StateError {
			failed++
		}
	}
	return Summary{
		RunID:     r.ID,
		Files:     files,
		Completed: r.store.Completed(),
		Failed:    failed,
		Lines:     lines,
		Unique:    r.set.Len(),
		Elapsed:   elapsed,
	}
}
