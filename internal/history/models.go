package history

import "time"

// Run is one journaled organizer run.
type Run struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      time.Time
	SourceDir       string
	DestinationDir  string
	DuplicatesDir   string
	QueryPattern    string
	RenameStyle     string
	GroupStyle      string
	TrackDuplicates bool
	Originals       int
	Duplicates      int
	Moved           int
	Failed          int
	Actions         []Action
}

// Duration reports how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Action is one journaled move.
type Action struct {
	Seq         int
	Source      string
	Destination string
	Kind        string
	Group       string
	Fingerprint string
	DuplicateOf string
	Status      string
	Error       string
}
