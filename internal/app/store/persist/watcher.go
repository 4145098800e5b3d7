// internal/app/store/persist/watcher.go
package persist

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher observes the data directory and invokes a callback when a
// table file is rewritten by an external process (for example an
// operator editing accounts.txt). It is optional and off by default;
// the server's own saves also trigger it, which is harmless because
// reloads are idempotent.
type Watcher struct {
	fsw *fsnotify.Watcher
	log *zap.Logger
}

// NewWatcher starts watching the data directory of files. onChange is
// called from the watcher goroutine with the base name of the changed
// table file.
func NewWatcher(files *Files, log *zap.Logger, onChange func(table string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(files.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, log: log}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func(string)) {
	tables := map[string]bool{
		AccountsFile: true,
		GroupsFile:   true,
		RequestsFile: true,
		InvitesFile:  true,
	}
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if !tables[name] {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.log.Debug("data file changed", zap.String("file", name), zap.String("op", ev.Op.String()))
				onChange(name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("data watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }
