package importer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"editor-note/internal/contextutil"
	"editor-note/internal/drafts"
)

// Watch re-imports drafts as they are created or written, until ctx is
// done. New subdirectories are watched as they appear.
func (p *Pipeline) Watch(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	for _, s := range p.drafts.Sources() {
		if err := addRecursive(watcher, s.Root); err != nil {
			return err
		}
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		wg      sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			if t.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	schedule := func(file drafts.ScannedFile) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[file.AbsPath]; ok && t.Stop() {
			wg.Done()
		}
		wg.Add(1)
		var t *time.Timer
		t = time.AfterFunc(p.debounce, func() {
			defer wg.Done()
			mu.Lock()
			if pending[file.AbsPath] == t {
				delete(pending, file.AbsPath)
			}
			mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			if _, err := p.ImportFile(ctx, file.Source, file.RelPath); err != nil {
				logger.ErrorContext(ctx, "failed to re-import draft", "source", file.Source, "rel_path", file.RelPath, "error", err)
			}
		})
		pending[file.AbsPath] = t
	}

	logger.InfoContext(ctx, "watching drafts", "sources", len(p.drafts.Sources()))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if isDir(event.Name) {
					if err := addRecursive(watcher, event.Name); err != nil {
						logger.WarnContext(ctx, "failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !drafts.IsDraft(event.Name) {
				continue
			}
			file, ok := p.drafts.Locate(event.Name)
			if !ok {
				continue
			}
			logger.DebugContext(ctx, "draft changed", "source", file.Source, "rel_path", file.RelPath, "op", event.Op.String())
			schedule(file)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.ErrorContext(ctx, "fsnotify error", "error", err)
		}
	}
}

// addRecursive watches root and every non-hidden directory below it.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
