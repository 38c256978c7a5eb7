package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ModuleSuffix is the file extension a hook module plugin must carry to
// be picked up by the watcher.
const ModuleSuffix = ".hook.so"

// Watcher watches a directory of hook module plugins and keeps a
// Registry in sync with it: new or rewritten *.hook.so files are
// (re)loaded, removed ones are unloaded. Filesystem events arrive in
// bursts (an editor's write-then-rename, a package manager unpacking
// several files at once), so individual events are coalesced into a
// single reload batch over a debounce window before anything is loaded.
type Watcher struct {
	dir      string
	debounce time.Duration
	registry *Registry
	log      *logrus.Entry

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// NewWatcher returns a Watcher over dir that applies changes to
// registry. debounce is the quiescence window; callers with no strong
// opinion should pass 200*time.Millisecond, matching the config default
// for WatchDebounce.
func NewWatcher(dir string, registry *Registry, debounce time.Duration, log *logrus.Entry) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		dir:       dir,
		debounce:  debounce,
		registry:  registry,
		log:       log,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
		pending:   make(map[string]struct{}),
	}, nil
}

// LoadAll performs a synchronous initial scan of dir, loading every
// *.hook.so file found. Call this once before Start so the registry is
// populated before the daemon starts serving requests.
func (w *Watcher) LoadAll() error {
	entries, err := filepathGlob(w.dir, ModuleSuffix)
	if err != nil {
		return err
	}
	for _, path := range entries {
		w.loadOne(path)
	}
	return nil
}

// Start begins watching dir for changes. It returns immediately; changes
// are applied to the registry asynchronously, batched on the debounce
// window.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop halts the watcher and releases its fsnotify handle.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ModuleSuffix) {
				continue
			}
			w.queue(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.WithError(err).Warn("hook module watcher error")
			}
		}
	}
}

// queue marks path dirty and (re)arms the debounce timer. The timer
// callback runs flush once no further events for any path have arrived
// within the debounce window.
func (w *Watcher) queue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush (re)loads or unloads every path dirtied since the last flush,
// then fires the built-in onHookModuleChanged event hook once per
// changed module, with its absolute path, per §4.1/§6.
func (w *Watcher) flush() {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	for path := range batch {
		if fileExists(path) {
			w.loadOne(path)
		} else {
			w.registry.Unload(path)
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		w.registry.Dispatch("onHookModuleChanged", AllCats, false, []any{absPath})
	}
}

func (w *Watcher) loadOne(path string) {
	result := w.registry.Load(path)
	if w.log == nil {
		return
	}
	entry := w.log.WithField("source", path)
	if result.LoadError != nil {
		entry.WithError(result.LoadError).Warn("failed to load hook module")
		return
	}
	entry.WithField("loaded", result.Loaded).Info("loaded hook module")
	for _, skip := range result.Skipped {
		entry.WithFields(logrus.Fields{"name": skip.Name, "why": skip.Why}).Warn("skipped hook export")
	}
}

func filepathGlob(dir, suffix string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
