// Package watch rebuilds a project whenever its source directories change.
// Events are debounced, rebuilds run one at a time with at most one queued
// behind the active one, and an optional schedule forces periodic full
// rebuilds.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Rebuild trigger labels, as recorded by metrics.Recorder.IncRebuild.
const (
	TriggerInitial  = "initial"
	TriggerFsnotify = "fsnotify"
	TriggerSchedule = "schedule"
)

// BuildFunc runs one full build. The watch session calls it for the
// initial build and for every rebuild; implementations construct a fresh
// orchestrator per call.
type BuildFunc func(ctx context.Context, trigger string) error

// Session owns one watch run over a loaded project.
type Session struct {
	project  *config.Project
	runBuild BuildFunc
	recorder metrics.Recorder
	onResult func(error)
	debounce time.Duration
	interval time.Duration // 0 disables scheduled rebuilds
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder attaches a metrics recorder for rebuild counters.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *Session) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

// WithResultHook registers a callback invoked after every build with its
// error, nil on success. The preview server's health endpoint hangs off
// this.
func WithResultHook(fn func(error)) Option {
	return func(s *Session) { s.onResult = fn }
}

// New prepares a watch session. Debounce and rebuild interval come from
// the project's watch configuration.
func New(project *config.Project, runBuild BuildFunc, opts ...Option) *Session {
	s := &Session{
		project:  project,
		runBuild: runBuild,
		recorder: metrics.NoopRecorder{},
		debounce: project.Watch.DebounceInterval(),
	}
	if interval, ok := project.Watch.FullRebuildInterval(); ok {
		s.interval = interval
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run builds once, then watches every configured source directory until
// ctx is canceled. Build failures are logged and kept out of the loop's
// error: the session stays alive so the next change can fix the build.
func (s *Session) Run(ctx context.Context) error {
	s.build(ctx, TriggerInitial)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs, err := s.watchSourceDirs(watcher)
	if err != nil {
		return err
	}

	rebuildReq := make(chan string, 1)
	trigger := s.debouncer(rebuildReq)
	s.startWorker(ctx, rebuildReq)

	stopSchedule, err := s.startSchedule(rebuildReq)
	if err != nil {
		return err
	}
	defer stopSchedule()

	slog.Info("watching for changes",
		logfields.Count(dirs),
		slog.Duration("debounce", s.debounce))

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping watch session")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// watchSourceDirs registers every configured source directory, recursively,
// and returns the number of directories watched.
func (s *Session) watchSourceDirs(watcher *fsnotify.Watcher) (int, error) {
	keys := make([]string, 0, len(s.project.Build.SourceDirs))
	for key := range s.project.Build.SourceDirs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	total := 0
	for _, key := range keys {
		path, _ := s.project.SourcePath(key)
		n, err := addDirsRecursive(watcher, path)
		if err != nil {
			return 0, fmt.Errorf("watch %s: %w", key, err)
		}
		total += n
	}
	return total, nil
}

// build runs one build and reports its result. Never fails the session.
func (s *Session) build(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	s.recorder.IncRebuild(trigger)

	err := s.runBuild(ctx, trigger)
	if err != nil {
		slog.Warn("build failed; watching for the next change",
			slog.String("trigger", trigger),
			logfields.Error(err))
	}
	if s.onResult != nil {
		s.onResult(err)
	}
}

// debouncer returns a trigger function that collapses event bursts into a
// single rebuild request after the debounce window passes quietly.
func (s *Session) debouncer(req chan string) func() {
	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(s.debounce, func() {
			enqueue(req, TriggerFsnotify)
		})
	}
}

// enqueue requests a rebuild without blocking. A full channel means one is
// already queued, which covers this request too.
func enqueue(req chan string, trigger string) {
	select {
	case req <- trigger:
	default:
	}
}

// startWorker consumes rebuild requests one at a time. The request channel
// holds at most one entry, so a burst arriving mid-build settles into a
// single follow-up rebuild.
func (s *Session) startWorker(ctx context.Context, req chan string) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case trigger, ok := <-req:
				if !ok {
					return
				}
				slog.Info("rebuilding site", slog.String("trigger", trigger))
				s.build(ctx, trigger)
			}
		}
	}()
}

// startSchedule arranges periodic full rebuilds when configured. The
// returned stop function is always safe to call.
func (s *Session) startSchedule(req chan string) (func(), error) {
	if s.interval <= 0 {
		return func() {}, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { enqueue(req, TriggerSchedule) }),
		gocron.WithName("full-rebuild"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("schedule full rebuild: %w", err)
	}
	scheduler.Start()
	slog.Info("scheduled periodic full rebuild", slog.Duration("interval", s.interval))

	return func() {
		if err := scheduler.Shutdown(); err != nil {
			slog.Warn("scheduler shutdown error", logfields.Error(err))
		}
	}, nil
}

// handleEvent filters noise, keeps the watch list growing with new
// directories, and triggers the debounced rebuild.
func (s *Session) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if ignorePath(ev.Name) || s.insideOutput(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_, _ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("file change detected",
		logfields.Path(ev.Name),
		slog.String("op", ev.Op.String()))
	trigger()
}

// insideOutput reports whether a path lives under the output root, so
// writes made by the build itself never trigger a rebuild.
func (s *Session) insideOutput(path string) bool {
	rel, err := filepath.Rel(s.project.OutputRoot(), path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func addDirsRecursive(w *fsnotify.Watcher, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ignorePath(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			return nil
		}
		count++
		return nil
	})
	return count, err
}

// ignorePath filters hidden files, editor temp/swap files, and OS
// droppings out of the event stream.
func ignorePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." && base != ".." {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}
