package scan

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"yee/internal/failures"
	"yee/internal/logging"
	"yee/internal/naming"
	"yee/internal/sidecar"
)

// File is one matched source file. It is immutable once produced.
type File struct {
	// Path is the absolute source path.
	Path string
	// RelPath is slash-separated and relative to the scan root.
	RelPath string
	// Subdir is the canonical relative directory, "." for the root.
	Subdir  string
	Name    string
	Size    int64
	ModTime time.Time
}

// Options configures a Scanner.
type Options struct {
	// Exclude lists directories that are pruned from the walk.
	Exclude []string
	Logger  *slog.Logger
}

// Scanner walks source trees.
type Scanner struct {
	exclude []string
	logger  *slog.Logger
}

// New constructs a Scanner.
func New(opts Options) *Scanner {
	exclude := make([]string, 0, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		exclude = append(exclude, resolvePath(dir))
	}
	return &Scanner{exclude: exclude, logger: logging.NewComponentLogger(opts.Logger, "scanner")}
}

// Scan returns every regular file under root whose name matches pattern.
// A missing or unreadable root and an invalid pattern are fatal; unreadable
// sub-directories and files that vanish mid-walk are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, root, pattern string) ([]File, error) {
	logger := logging.WithContext(ctx, s.logger)

	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, failures.Wrap(failures.ErrFatal, failures.StageScan, "compile pattern", "invalid glob "+pattern, doublestar.ErrBadPattern)
	}
	matchPath := strings.Contains(pattern, "/")

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, failures.Wrap(failures.ErrFatal, failures.StageScan, "resolve root", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, failures.Wrap(failures.ErrFatal, failures.StageScan, "stat root", absRoot, err)
	}
	if !info.IsDir() {
		return nil, failures.Wrap(failures.ErrFatal, failures.StageScan, "stat root", absRoot+" is not a directory", nil)
	}
	// WalkDir does not descend into a symlinked root.
	if absRoot, err = filepath.EvalSymlinks(absRoot); err != nil {
		return nil, failures.Wrap(failures.ErrFatal, failures.StageScan, "resolve root", root, err)
	}

	var files []File
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == absRoot {
				return err
			}
			logging.WarnWithContext(logger, "skipping unreadable path", "scan_unreadable",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the source tree"),
			)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != absRoot && s.excluded(path) {
				logger.Debug("pruning excluded directory", logging.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			if d.Type()&fs.ModeSymlink != 0 {
				logger.Debug("skipping symlink", logging.String("path", path))
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		subject := d.Name()
		if matchPath {
			subject = rel
		}
		matched, err := doublestar.Match(pattern, subject)
		if err != nil || !matched {
			return nil
		}
		if sidecar.IsRecordFile(path) {
			logger.Debug("skipping sidecar", logging.String("path", path))
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("file vanished during scan", logging.String("path", path))
				return nil
			}
			logging.WarnWithContext(logger, "skipping file without metadata", "scan_stat_failed",
				logging.String("path", path),
				logging.Error(err),
			)
			return nil
		}

		files = append(files, File{
			Path:    path,
			RelPath: rel,
			Subdir:  naming.CanonicalSubdir(filepath.Dir(rel)),
			Name:    d.Name(),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		logging.Trace(ctx, logger, "matched file", logging.String("path", rel))
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, failures.Wrap(failures.ErrFatal, failures.StageScan, "walk", absRoot, walkErr)
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.RelPath, b.RelPath) })
	logger.Info("scan completed",
		logging.String("root", absRoot),
		logging.String("pattern", pattern),
		logging.Int("matched", len(files)),
	)
	return files, nil
}

func (s *Scanner) excluded(path string) bool {
	clean := filepath.Clean(path)
	for _, dir := range s.exclude {
		if clean == dir {
			return true
		}
	}
	return false
}

// resolvePath returns the absolute, symlink-free form of path. Components that
// do not exist yet are appended to the resolved nearest existing ancestor.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	var missing []string
	for dir := abs; ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		missing = append([]string{filepath.Base(dir)}, missing...)
	}
}
