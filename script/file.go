package script

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// File is a bauble.ScriptSource backed by a file on disk. Text returns the
// contents as of the last successful Reload; Watch reloads on every save.
type File struct {
	path string

	mu   sync.Mutex
	text string

	// Logger receives watcher errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// OpenFile reads the script at path.
func OpenFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the file's path.
func (f *File) Path() string {
	return f.path
}

// Text implements bauble.ScriptSource. Safe for concurrent use.
func (f *File) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// Reload re-reads the file. On error the previous text is kept.
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	f.mu.Lock()
	f.text = string(data)
	f.mu.Unlock()
	return nil
}

func (f *File) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// Watch reloads the file whenever it is written or replaced and then calls
// onChange from the watcher goroutine. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temporary file over the original keep working.
func (f *File) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch script: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("watch script: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch script: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := f.Reload(); err != nil {
				f.logger().Error("script watcher", "path", f.path, "error", err)
				continue
			}
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger().Error("script watcher", "path", f.path, "error", err)
		}
	}
}
