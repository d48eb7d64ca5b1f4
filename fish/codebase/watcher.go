package codebase

import (
	"io/fs"
	"path/filepath"
	"time"
)

// FileWatcher polls the codebase root and rescans scripts whose
// modification time moved forward. Scripts open in an editor are left
// alone: their text belongs to the editor until they are closed.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time

	// OnChange, if set, is called after a script is rescanned. f is nil
	// when the script was removed from disk.
	OnChange func(path string, f *FileInfo)
}

func NewFileWatcher(c *Codebase) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

// Start records the current modification times and then polls in the
// background, so only changes made after Start trigger a rescan.
func (w *FileWatcher) Start() {
	w.seed()
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// walk calls fn for every script under the codebase root.
func (w *FileWatcher) walk(fn func(path string, modTime time.Time)) {
	root := w.codebase.RootDir()
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDir(d, path, root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsScript(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fn(path, info.ModTime())
		return nil
	})
}

func (w *FileWatcher) seed() {
	w.walk(func(path string, modTime time.Time) {
		w.modTimes[path] = modTime
	})
}

func (w *FileWatcher) scan() {
	currentFiles := make(map[string]bool)

	w.walk(func(path string, modTime time.Time) {
		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if known && !modTime.After(lastMod) {
			return
		}
		w.modTimes[path] = modTime
		if w.codebase.IsOpen(path) {
			return
		}
		if err := w.codebase.ScanFile(path); err != nil {
			log.Warningf("rescan %s: %s", path, err)
			return
		}
		w.changed(path, w.codebase.GetFile(path))
	})

	for path := range w.modTimes {
		if currentFiles[path] {
			continue
		}
		delete(w.modTimes, path)
		if w.codebase.IsOpen(path) {
			continue
		}
		w.codebase.RemoveFile(path)
		log.Debugf("removed %s", path)
		w.changed(path, nil)
	}
}

func (w *FileWatcher) changed(path string, f *FileInfo) {
	if w.OnChange != nil {
		w.OnChange(path, f)
	}
}
