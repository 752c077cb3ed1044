package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Logger is the subset of the application logger the watcher reports through.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}

// Watcher reloads a config file when it changes on disk. Only successfully
// parsed configs are delivered; the newest one replaces any unread one.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan Config
	done    chan struct{}
	wg      sync.WaitGroup
	log     Logger
	once    sync.Once
}

// Watch starts watching path. The containing directory is watched so that
// editors replacing the file are seen too.
func Watch(path string, log Logger) (*Watcher, error) {
	if log == nil {
		log = nopLogger{}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w := &Watcher{
		path:    abs,
		watcher: fw,
		updates: make(chan Config, 1),
		done:    make(chan struct{}),
		log:     log,
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Updates delivers reloaded configs. It is closed by Close.
func (w *Watcher) Updates() <-chan Config { return w.updates }

func (w *Watcher) Path() string { return w.path }

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.updates)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnf("config watcher: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	// editors that save by rename, and deletes, leave no file behind; a
	// truncated file is a write still in progress. Neither is a new config.
	data, err := os.ReadFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		w.log.Warnf("config reload ignored: %v", err)
		return
	}
	if len(data) == 0 {
		return
	}
	cfg, err := Parse(data)
	if err != nil {
		w.log.Warnf("config reload ignored: %s: %v", w.path, err)
		return
	}
	// drop a stale unread config
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- cfg:
		w.log.Infof("config reloaded from %s", w.path)
	case <-w.done:
	}
}

// Close stops the watcher goroutine. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
