package catalog

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"osuparse/dotosu"
	"osuparse/osz"
)

type ScanReport struct {
	ID      string `json:"id"`
	Indexed int    `json:"indexed"`
	Failed  int    `json:"failed"`
}

// Scan decodes every .osu file under root, and every .osu member of .osz
// archives under root, with at most workers files in flight. Files that fail
// are recorded and never stop the scan. Only storage errors and cancellation
// abort it.
func (c *Catalog) Scan(ctx context.Context, root string, workers int) (ScanReport, error) {
	report := ScanReport{ID: uuid.NewString()}
	if workers < 1 {
		workers = 1
	}

	paths, err := mapFiles(root)
	if err != nil {
		return report, err
	}
	log.Info("scan started", "id", report.ID, "root", root, "files", len(paths), "workers", workers)

	tokens := make(chan struct{}, workers)
	var (
		wg       sync.WaitGroup
		indexed  atomic.Int64
		failed   atomic.Int64
		errOnce  sync.Once
		storeErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { storeErr = err })
	}

	for _, p := range paths {
		select {
		case tokens <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-tokens }()
			err := guard(func() error {
				ok, bad, err := c.indexFile(report.ID, p)
				indexed.Add(int64(ok))
				failed.Add(int64(bad))
				return err
			})
			if err != nil {
				fail(err)
			}
		}()
	}
	wg.Wait()

	report.Indexed = int(indexed.Load())
	report.Failed = int(failed.Load())
	if err := ctx.Err(); err != nil {
		return report, errors.Wrap(err, "scan interrupted")
	}
	if storeErr != nil {
		return report, storeErr
	}
	log.Info("scan finished", "id", report.ID, "indexed", report.Indexed, "failed", report.Failed)
	return report, nil
}

// mapFiles lists .osu and .osz files under root in lexical order. Unreadable
// entries are logged and skipped.
func mapFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("path is not a directory: %s", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("skipping", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".osu", ".osz":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	sort.Strings(paths)
	return paths, nil
}

// indexFile stores every beatmap found at path and returns how many were
// indexed and how many failed. The error is reserved for storage problems.
func (c *Catalog) indexFile(scanID, path string) (ok, bad int, err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return 0, 1, c.RecordFailure(scanID, path, errors.Wrap(readErr, "read"))
	}

	if !strings.EqualFold(filepath.Ext(path), ".osz") {
		b, decodeErr := dotosu.Decode(bytes.NewReader(data))
		if decodeErr != nil {
			return 0, 1, c.RecordFailure(scanID, path, decodeErr)
		}
		log.Debug("indexed", "path", path, "title", b.Metadata.Title, "version", b.Metadata.Version)
		return 1, 0, c.Put(scanID, path, b)
	}

	members, oszErr := osz.DecodeAll(data)
	if oszErr != nil {
		return 0, 1, c.RecordFailure(scanID, path, oszErr)
	}
	for _, m := range members {
		memberPath := filepath.Join(path, m.Name)
		if m.Err != nil {
			bad++
			if err := c.RecordFailure(scanID, memberPath, m.Err); err != nil {
				return ok, bad, err
			}
			continue
		}
		ok++
		if err := c.Put(scanID, memberPath, m.Beatmap); err != nil {
			return ok, bad, err
		}
	}
	log.Debug("indexed archive", "path", path, "ok", ok, "failed", bad)
	return ok, bad, nil
}

// guard runs f, turning a panic into an error that carries the goroutine's
// stack.
func guard(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 100000)
			n := runtime.Stack(buf, false)
			log.Error("panic", "value", r, "stack", string(buf[:n]))
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return f()
}
