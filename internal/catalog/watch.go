package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a catalog directory when one of its files changes and
// hands the fresh catalog to a callback. Bursts of events within the
// debounce window trigger one reload.
type Watcher struct {
	loader   *Loader
	log      *zap.Logger
	onReload func(*Catalog)
	debounce time.Duration

	fsw    *fsnotify.Watcher
	files  map[string]bool
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// NewWatcher watches the loader's directory. onReload is called from the
// watcher goroutine after every successful reload.
func NewWatcher(loader *Loader, debounce time.Duration, onReload func(*Catalog)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool)
	for _, p := range loader.Paths().All() {
		files[filepath.Clean(p)] = true
	}
	return &Watcher{
		loader:   loader,
		log:      loader.log,
		onReload: onReload,
		debounce: debounce,
		fsw:      fsw,
		files:    files,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine. It returns once the directory is
// registered with the OS. On failure the watcher is closed and Stop is a
// no-op.
func (w *Watcher) Start(ctx context.Context) error {
	// Watch the directory: editors often replace files by rename.
	if err := w.fsw.Add(w.loader.Paths().BaseDir); err != nil {
		w.once.Do(func() {
			close(w.doneCh)
			_ = w.fsw.Close()
		})
		return err
	}
	go w.run(ctx)
	return nil
}

// Stop terminates the watcher and waits for its goroutine.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		if err := w.fsw.Close(); err != nil {
			w.log.Warn("close catalog watcher", zap.Error(err))
		}
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("catalog file changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watcher error", zap.Error(err))
		case <-timerCh:
			timer, timerCh = nil, nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	w.loader.Invalidate()
	c, err := w.loader.Load()
	if err != nil {
		// Keep serving the previous catalog.
		w.log.Error("reload catalog", zap.Error(err))
		return
	}
	if w.onReload != nil {
		w.onReload(c)
	}
}
