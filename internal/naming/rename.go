package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"yee/internal/fingerprint"
)

// Rename derives the destination file name for original under style. The
// counter is only consulted by RenameIncremental.
func Rename(style RenameStyle, original string, fp fingerprint.Fingerprint, counter int, opts Options) string {
	stem, ext := SplitName(original)
	switch style {
	case RenameNone:
		return original
	case RenameLowercase:
		return cases.Lower(language.Und).String(original)
	case RenameIncremental:
		return fmt.Sprintf("%0*d%s", opts.counterWidth(), counter, ext)
	case RenameCombined:
		return stem + "_" + fp.Short(opts.hashLength()) + ext
	default:
		return fp.Short(opts.hashLength()) + ext
	}
}

// SplitName separates a base name into stem and extension. Leading-dot names
// such as ".profile" have no extension.
func SplitName(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	return stem, ext
}
