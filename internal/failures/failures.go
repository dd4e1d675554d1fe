package failures

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFatal           = errors.New("fatal error")
	ErrFile            = errors.New("file error")
	ErrNamingCollision = errors.New("naming collision")
	ErrConfiguration   = errors.New("configuration error")
)

// Stage names used in wrapped messages and failure records.
const (
	StageScan        = "scan"
	StageFingerprint = "fingerprint"
	StagePlan        = "plan"
	StageMetadata    = "metadata"
	StageMove        = "move"
	StagePreflight   = "preflight"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrFile
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should halt the run with a non-zero exit.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal) || errors.Is(err, ErrConfiguration)
}

// FileFailure records a single file that was skipped.
type FileFailure struct {
	Path  string
	Stage string
	Err   error
}

// Reason renders the failure cause for summaries.
func (f FileFailure) Reason() string {
	if f.Err == nil {
		return "unknown error"
	}
	return f.Err.Error()
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "unspecified failure"
	}
	return strings.Join(parts, ": ")
}
