package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileSource persists settings as one YAML document. Watching uses
// fsnotify on the containing directory, so editors that replace the file
// (write to temp, rename over) are still observed.
type FileSource struct {
	path string
}

// NewFileSource returns a source backed by the YAML file at path. The file
// does not need to exist yet.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Load() (map[string]any, error) {
	b, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(b, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (f *FileSource) Store(values map[string]any) error {
	b, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	// Write-then-rename so watchers and concurrent loads never observe a
	// half-written document.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileSource) Watch(onChange func()) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(f.path)); err != nil {
		w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go f.watchLoop(w, onChange, done)

	return func() {
		w.Close()
		<-done
	}, nil
}

func (f *FileSource) watchLoop(w *fsnotify.Watcher, onChange func(), done chan struct{}) {
	defer close(done)

	// Editors fire bursts of events per save; coalesce them.
	const debounce = 50 * time.Millisecond
	var timer *time.Timer
	var fire <-chan time.Time

	name := filepath.Clean(f.path)
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			onChange()
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}
