package naming

import (
	"fmt"
	"strings"
)

// ParseError is returned when a style name is not recognized.
type ParseError struct {
	Type  string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Type, e.Value)
}

// RenameStyle selects how a destination file name is derived.
type RenameStyle int

const (
	// RenameNone keeps the original file name.
	RenameNone RenameStyle = iota
	// RenameLowercase lower-cases the original file name.
	RenameLowercase
	// RenameIncremental uses a zero-padded run counter plus the original extension.
	RenameIncremental
	// RenameShortHash uses the leading fingerprint hex characters plus the original extension.
	RenameShortHash
	// RenameCombined keeps the stem and appends "_" and the short fingerprint.
	RenameCombined
)

const (
	RenameNoneStr        = "none"
	RenameLowercaseStr   = "lowercase"
	RenameIncrementalStr = "incremental"
	RenameShortHashStr   = "short-hash"
	RenameCombinedStr    = "combined"
)

// RenameStyles lists every rename style in declaration order.
func RenameStyles() []RenameStyle {
	return []RenameStyle{RenameNone, RenameLowercase, RenameIncremental, RenameShortHash, RenameCombined}
}

func (s RenameStyle) String() string {
	switch s {
	case RenameNone:
		return RenameNoneStr
	case RenameLowercase:
		return RenameLowercaseStr
	case RenameIncremental:
		return RenameIncrementalStr
	case RenameShortHash:
		return RenameShortHashStr
	case RenameCombined:
		return RenameCombinedStr
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the defined constants.
func (s RenameStyle) Valid() bool {
	return s >= RenameNone && s <= RenameCombined
}

// ParseRenameStyle accepts kebab, snake and compact spellings case-insensitively.
func ParseRenameStyle(str string) (RenameStyle, error) {
	switch canonicalStyle(str) {
	case RenameNoneStr:
		return RenameNone, nil
	case RenameLowercaseStr, "lower":
		return RenameLowercase, nil
	case RenameIncrementalStr:
		return RenameIncremental, nil
	case RenameShortHashStr, "hash":
		return RenameShortHash, nil
	case RenameCombinedStr:
		return RenameCombined, nil
	default:
		return RenameShortHash, &ParseError{Type: "rename style", Value: str}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s RenameStyle) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal rename style: invalid value %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *RenameStyle) UnmarshalText(text []byte) error {
	parsed, err := ParseRenameStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// GroupStyle selects how a destination group key is derived.
type GroupStyle int

const (
	// GroupShortHash hashes the relative source sub-directory.
	GroupShortHash GroupStyle = iota
	// GroupIncremental numbers sub-directories in order of first sight.
	GroupIncremental
)

const (
	GroupShortHashStr   = "short-hash"
	GroupIncrementalStr = "incremental"
)

// GroupStyles lists every group style in declaration order.
func GroupStyles() []GroupStyle {
	return []GroupStyle{GroupShortHash, GroupIncremental}
}

func (s GroupStyle) String() string {
	switch s {
	case GroupShortHash:
		return GroupShortHashStr
	case GroupIncremental:
		return GroupIncrementalStr
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the defined constants.
func (s GroupStyle) Valid() bool {
	return s == GroupShortHash || s == GroupIncremental
}

// ParseGroupStyle accepts kebab, snake and compact spellings case-insensitively.
func ParseGroupStyle(str string) (GroupStyle, error) {
	switch canonicalStyle(str) {
	case GroupShortHashStr, "hash":
		return GroupShortHash, nil
	case GroupIncrementalStr:
		return GroupIncremental, nil
	default:
		return GroupShortHash, &ParseError{Type: "group style", Value: str}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s GroupStyle) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal group style: invalid value %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *GroupStyle) UnmarshalText(text []byte) error {
	parsed, err := ParseGroupStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func canonicalStyle(str string) string {
	s := strings.ToLower(strings.TrimSpace(str))
	s = strings.ReplaceAll(s, "_", "-")
	if s == "shorthash" {
		s = RenameShortHashStr
	}
	return s
}
