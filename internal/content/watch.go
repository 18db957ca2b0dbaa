package content

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"consulthub/internal/catalog"
)

const defaultDebounce = 500 * time.Millisecond

// Watch reloads the snapshot in h whenever a JSON file in dir changes. Bursts
// of events are coalesced over debounce. A failed reload is logged and the
// previous snapshot stays in place. Watch blocks until ctx is done.
func Watch(ctx context.Context, dir string, n *catalog.Normalizer, h *Holder, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "content: new watcher")
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return eris.Wrapf(err, "content: watch %s", dir)
	}
	zap.L().Info("watching content directory", zap.String("dir", dir))

	if debounce <= 0 {
		debounce = defaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			zap.L().Warn("content watcher error", zap.Error(err))

		case <-timer.C:
			snap, err := Load(dir, n)
			if err != nil {
				zap.L().Error("content reload failed, keeping previous data", zap.Error(err))
				continue
			}
			h.Store(snap)
			zap.L().Info("content reloaded",
				zap.Int("projects", snap.Projects.Len()),
				zap.Int("investments", snap.Investments.Len()),
				zap.Int("services", len(snap.Services)),
				zap.Int("samples", len(snap.Samples)),
			)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
