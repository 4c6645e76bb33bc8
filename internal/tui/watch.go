package tui

import (
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor or cargo produces
// when saving.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to a fixed set of files. It watches their
// directories, so files replaced by rename are still seen.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	onError  func(error)

	fsw     *fsnotify.Watcher
	changed chan struct{}

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// NewWatcher starts watching paths. Files that do not exist yet are picked
// up when they are created.
func NewWatcher(paths []string, debounce time.Duration, onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if onError == nil {
		onError = func(error) {}
	}

	w := &Watcher{
		files:    make(map[string]bool),
		debounce: debounce,
		onError:  onError,
		fsw:      fsw,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	go w.loop()
	return w, nil
}

// Changed receives once per debounced burst of changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.trigger()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// FileChangedMsg is sent when a watched file changes.
type FileChangedMsg struct{}

// WatchCmd waits for the next change. Re-issue it after every
// FileChangedMsg to keep watching.
func WatchCmd(w *Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return FileChangedMsg{}
		case <-w.done:
			return nil
		}
	}
}
