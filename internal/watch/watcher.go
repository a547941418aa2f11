package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Follow tails a leak-trace file and invokes handle once per complete line
// appended after the call. Existing content is skipped so a long-running
// tracker log does not replay history. Rotation (remove/rename followed by
// recreate) is handled by re-opening from the start of the new file.
// Returns nil when ctx is cancelled.
func Follow(ctx context.Context, path string, handle func(line string), log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	file, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek trace file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and log rotation replace
	// the inode, and a directory watch survives that.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	log.Info("following trace file", zap.String("path", abs))

	var carry string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs {
				continue
			}

			switch {
			case event.Op.Has(fsnotify.Write):
				carry = drain(file, carry, handle)

			case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
				log.Debug("trace file rotated", zap.String("op", event.Op.String()))

			case event.Op.Has(fsnotify.Create):
				// Rotated file reappeared: re-open and read from the top.
				reopened, err := os.Open(abs)
				if err != nil {
					log.Warn("reopen after rotation failed", zap.Error(err))
					continue
				}
				file.Close()
				file = reopened
				carry = drain(file, "", handle)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

// drain reads everything appended since the last read and dispatches
// complete lines. A trailing partial line is carried to the next write.
func drain(file *os.File, carry string, handle func(line string)) string {
	data, err := io.ReadAll(file)
	if err != nil {
		return carry
	}
	buf := carry + string(data)

	for {
		idx := strings.IndexByte(buf, '\n')
		if idx < 0 {
			return buf
		}
		line := strings.TrimSpace(buf[:idx])
		buf = buf[idx+1:]
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		handle(line)
	}
}
