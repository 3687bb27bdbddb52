package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
)

// DefaultDebounce is the quiet period after the last event before a change
// is reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a roster file made by any process.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   string
	debounce time.Duration
	changes  chan struct{}
	stopCh   chan struct{}
	logger   *logging.Logger
	stopOnce sync.Once
	done     sync.WaitGroup
}

// NewWatcher starts watching path. The containing directory is watched
// rather than the file itself, since atomic saves replace the file.
func NewWatcher(path string, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		target:   filepath.Base(path),
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
	w.done.Add(1)
	go w.watchLoop()
	return w, nil
}

// Changes delivers one value per burst of changes. Pending notifications are
// coalesced; the channel is closed by Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		w.done.Wait()
		close(w.changes)
	})
	return err
}

func (w *Watcher) watchLoop() {
	defer w.done.Done()

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer

	for {
		select {
		case <-w.stopCh:
			debounceTimer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("roster watcher error", "error", err.Error())
		}
	}
}
