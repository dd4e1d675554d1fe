package config

const (
	defaultSourceDir      = "."
	defaultDestinationDir = "./out"
	defaultHistoryPath    = "~/.local/share/yee/history.db"
	defaultQueryPattern   = "*"
	defaultRenameStyle    = "short-hash"
	defaultGroupStyle     = "short-hash"
	defaultHashLength     = 8
	defaultCounterWidth   = 4
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// DuplicatesDirName is the duplicates area created under the destination
	// root when duplicates_dir is not set.
	DuplicatesDirName = "_dupes"

	// ProjectConfigName is looked up in the working directory when no user
	// config exists.
	ProjectConfigName = "yee.toml"

	minHashLength   = 4
	maxHashLength   = 64
	minCounterWidth = 1
	maxCounterWidth = 12
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:      defaultSourceDir,
			DestinationDir: defaultDestinationDir,
			HistoryPath:    defaultHistoryPath,
		},
		Organize: Organize{
			QueryPattern:    defaultQueryPattern,
			TrackDuplicates: true,
			RenameStyle:     defaultRenameStyle,
			GroupStyle:      defaultGroupStyle,
			HashLength:      defaultHashLength,
			CounterWidth:    defaultCounterWidth,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
