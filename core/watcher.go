package core

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher watches view and asset directories in dev mode and fires onChange
// when anything in them is written, created, renamed, or removed. Changes are
// debounced so an editor save producing several events triggers one reload.
type Watcher struct {
	fsw      *fsnotify.Watcher
	log      *logrus.Logger
	onChange func()
	done     chan struct{}
}

// WatchDirs starts watching the given directory trees. Missing directories
// are skipped.
func WatchDirs(dirs []string, onChange func(), log *logrus.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		log:      log,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	for _, dir := range dirs {
		w.addTree(dir)
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) addTree(root string) {
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.WithError(err).WithField("dir", path).Warn("could not watch directory")
		}
		return nil
	})
}

func (w *Watcher) loop() {
	var debounce *time.Timer

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			// New directories need watching too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addTree(event.Name)
				}
			}

			w.log.WithFields(logrus.Fields{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("file changed")

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				if w.onChange != nil {
					w.onChange()
				}
			})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
