package sidecar

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"yee/internal/failures"
	"yee/internal/fingerprint"
	"yee/internal/logging"
)

const (
	// Version is the schema version written into every record.
	Version = 1
	// Suffix is appended to the source file name to form the sidecar name.
	Suffix = ".yee.yaml"
)

// Record is the documented sidecar schema.
type Record struct {
	Version         int       `yaml:"version"`
	RunID           string    `yaml:"run_id,omitempty"`
	OriginalPath    string    `yaml:"original_path"`
	SizeBytes       int64     `yaml:"size_bytes"`
	ModifiedAt      time.Time `yaml:"modified_at"`
	Fingerprint     string    `yaml:"fingerprint"`
	Algorithm       string    `yaml:"algorithm"`
	Group           string    `yaml:"group"`
	DestinationName string    `yaml:"destination_name"`
	DestinationPath string    `yaml:"destination_path"`
}

// PathFor returns the sidecar location for a source file.
func PathFor(sourcePath string) string {
	return sourcePath + Suffix
}

// IsSidecar reports whether name looks like a sidecar file name.
func IsSidecar(name string) bool {
	return strings.HasSuffix(name, Suffix) && len(name) > len(Suffix)
}

// Writer serializes records next to their source files.
type Writer struct {
	logger *slog.Logger
}

// NewWriter constructs a sidecar writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logging.NewComponentLogger(logger, "sidecar")}
}

// Write stores record beside record.OriginalPath and returns the sidecar path.
// An existing sidecar at that path is replaced.
func (w *Writer) Write(ctx context.Context, record Record) (string, error) {
	source := strings.TrimSpace(record.OriginalPath)
	if source == "" {
		return "", failures.Wrap(failures.ErrFile, failures.StageMetadata, "validate record", "original path is empty", nil)
	}
	if record.Version == 0 {
		record.Version = Version
	}
	record.ModifiedAt = record.ModifiedAt.UTC()

	payload, err := yaml.Marshal(&record)
	if err != nil {
		return "", failures.Wrap(failures.ErrFile, failures.StageMetadata, "encode record", source, err)
	}

	target := PathFor(source)
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".yee-sidecar-*.tmp")
	if err != nil {
		return "", failures.Wrap(failures.ErrFile, failures.StageMetadata, "create temp", target, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", failures.Wrap(failures.ErrFile, failures.StageMetadata, "write temp", target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", failures.Wrap(failures.ErrFile, failures.StageMetadata, "close temp", target, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", failures.Wrap(failures.ErrFile, failures.StageMetadata, "chmod temp", target, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return "", failures.Wrap(failures.ErrFile, failures.StageMetadata, "rename", target, err)
	}

	logging.WithContext(ctx, w.logger).Debug("sidecar written",
		logging.String("sidecar", target),
		logging.String("fingerprint", record.Fingerprint),
	)
	return target, nil
}

// Load reads and validates one sidecar document.
func Load(path string) (Record, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("sidecar: read %s: %w", path, err)
	}
	var record Record
	if err := yaml.Unmarshal(payload, &record); err != nil {
		return Record{}, fmt.Errorf("sidecar: decode %s: %w", path, err)
	}
	if record.Version != Version {
		return Record{}, fmt.Errorf("sidecar: %s: unsupported version %d", path, record.Version)
	}
	if strings.TrimSpace(record.OriginalPath) == "" {
		return Record{}, fmt.Errorf("sidecar: %s: original_path is empty", path)
	}
	if record.Algorithm == fingerprint.Algorithm {
		if _, err := fingerprint.Parse(record.Fingerprint); err != nil {
			return Record{}, fmt.Errorf("sidecar: %s: %w", path, err)
		}
	}
	return record, nil
}

// IsRecordFile reports whether path is named like a sidecar and holds a
// loadable record. Files that merely share the suffix are not records.
func IsRecordFile(path string) bool {
	if !IsSidecar(filepath.Base(path)) {
		return false
	}
	_, err := Load(path)
	return err == nil
}

// Found pairs a discovered sidecar path with its parsed record or the error
// that prevented parsing.
type Found struct {
	Path   string
	Record Record
	Err    error
}

// Discover walks root and loads every sidecar, sorted by path. Unparseable
// sidecars are returned with Err set rather than aborting the walk.
func Discover(ctx context.Context, root string) ([]Found, error) {
	var found []Found
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() || !IsSidecar(d.Name()) {
			return nil
		}
		record, loadErr := Load(path)
		found = append(found, Found{Path: path, Record: record, Err: loadErr})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sidecar: discover %s: %w", root, err)
	}
	slices.SortFunc(found, func(a, b Found) int { return strings.Compare(a.Path, b.Path) })
	return found, nil
}
