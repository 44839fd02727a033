package grep

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Run searches stdin when paths is empty, each path otherwise, walking
// directories when Options.Recursive is set. It reports whether any line
// was selected. An error means an input could not be read.
func (s *Searcher) Run(ctx context.Context, stdin io.Reader, paths []string) (bool, error) {
	foundAny := false
	multi := s.opts.Recursive || len(paths) > 1

	if len(paths) == 0 {
		n, err := s.Scan(ctx, "(standard input)", stdin, false)
		return n > 0, err
	}

	for _, root := range paths {
		var found bool
		var err error
		if s.opts.Recursive {
			found, err = s.walk(ctx, root)
		} else {
			found, err = s.scanFile(ctx, root, multi)
		}
		if found {
			foundAny = true
		}
		if err != nil {
			return foundAny, err
		}
	}
	return foundAny, nil
}

func (s *Searcher) scanFile(ctx context.Context, path string, addPrefix bool) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s: is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	n, err := s.Scan(ctx, path, f, addPrefix)
	return n > 0, err
}

// walk searches every regular file under root. Unreadable entries are
// logged and skipped.
func (s *Searcher) walk(ctx context.Context, root string) (bool, error) {
	found := false
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("Skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			s.logger.Warn("Skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}
		defer f.Close()

		n, err := s.Scan(ctx, path, f, true)
		if n > 0 {
			found = true
		}
		return err
	})
	if err != nil {
		return found, fmt.Errorf("walking %s: %w", root, err)
	}
	return found, nil
}
