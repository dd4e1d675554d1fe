package planner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yee/internal/naming"
	"yee/internal/planner"
	"yee/internal/registry"
	"yee/internal/scan"
)

type fixture struct {
	source string
	dest   string
	dupes  string
}

func newFixture(t *testing.T, files map[string]string) fixture {
	t.Helper()
	base := t.TempDir()
	fx := fixture{
		source: filepath.Join(base, "src"),
		dest:   filepath.Join(base, "out"),
		dupes:  filepath.Join(base, "out", "_dupes"),
	}
	for rel, content := range files {
		path := filepath.Join(fx.source, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return fx
}

func (fx fixture) options(rename naming.RenameStyle, group naming.GroupStyle, track bool) planner.Options {
	return planner.Options{
		RenameStyle:     rename,
		GroupStyle:      group,
		Naming:          naming.Options{HashLength: 8, CounterWidth: 4},
		TrackDuplicates: track,
		DestinationRoot: fx.dest,
		DuplicatesRoot:  fx.dupes,
		Workers:         4,
		RunID:           "run-1",
	}
}

func (fx fixture) build(t *testing.T, pattern string, opts planner.Options) *planner.Plan {
	t.Helper()
	files, err := scan.New(scan.Options{}).Scan(context.Background(), fx.source, pattern)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	plan, err := planner.New(opts, nil).Build(context.Background(), files)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return plan
}

func actionFor(t *testing.T, plan *planner.Plan, suffix string) planner.Action {
	t.Helper()
	for _, a := range plan.Actions {
		if strings.HasSuffix(filepath.ToSlash(a.Source), suffix) {
			return a
		}
	}
	t.Fatalf("no action for %s", suffix)
	return planner.Action{}
}

func TestBuildDeterministic(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"a/one.txt":   "1",
		"a/two.txt":   "2",
		"b/three.txt": "1",
		"c/d/four.md": "4",
	})
	for _, rename := range naming.RenameStyles() {
		for _, group := range naming.GroupStyles() {
			opts := fx.options(rename, group, true)
			first := fx.build(t, "*", opts)
			opts.Workers = 1
			second := fx.build(t, "*", opts)
			if len(first.Actions) != len(second.Actions) {
				t.Fatalf("%s/%s: action counts differ", rename, group)
			}
			for i := range first.Actions {
				a, b := first.Actions[i], second.Actions[i]
				if a.Source != b.Source || a.Destination != b.Destination || a.Kind != b.Kind || a.Group != b.Group {
					t.Fatalf("%s/%s: action %d differs: %+v vs %+v", rename, group, i, a, b)
				}
			}
		}
	}
}

func TestBuildDetectsDuplicates(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"a.txt": "same",
		"b.txt": "same",
		"c.txt": "other",
	})
	plan := fx.build(t, "*.txt", fx.options(naming.RenameNone, naming.GroupShortHash, true))

	a := actionFor(t, plan, "/a.txt")
	b := actionFor(t, plan, "/b.txt")
	c := actionFor(t, plan, "/c.txt")
	if a.Kind != registry.Original || c.Kind != registry.Original {
		t.Fatalf("expected a and c to be originals: %v %v", a.Kind, c.Kind)
	}
	if b.Kind != registry.Duplicate || b.DuplicateOf != a.Source {
		t.Fatalf("expected b to duplicate a, got %+v", b)
	}
	if plan.Originals() != 2 || plan.Duplicates() != 1 {
		t.Fatalf("originals=%d duplicates=%d", plan.Originals(), plan.Duplicates())
	}
	if plan.Originals() != 2 {
		t.Fatalf("originals = %d, want 2", plan.Originals())
	}
}

func TestBuildDestinationsUnique(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"x/a.txt": "a",
		"x/b.txt": "a",
		"x/c.txt": "a",
		"y/a.txt": "d",
		"y/A.TXT": "e",
	})
	for _, rename := range naming.RenameStyles() {
		plan := fx.build(t, "*", fx.options(rename, naming.GroupIncremental, true))
		seen := map[string]string{}
		for _, a := range plan.Actions {
			if prev, ok := seen[a.Destination]; ok {
				t.Fatalf("%s: %s and %s share destination %s", rename, prev, a.Source, a.Destination)
			}
			seen[a.Destination] = a.Source
		}
	}
}

func TestBuildRenameNoneKeepsNames(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"p/Holiday Photo.JPG": "1",
		"q/notes":             "2",
		"q/.profile":          "3",
	})
	plan := fx.build(t, "*", fx.options(naming.RenameNone, naming.GroupShortHash, true))
	for _, a := range plan.Actions {
		if filepath.Base(a.Destination) != filepath.Base(a.Source) {
			t.Fatalf("destination %s does not keep source name %s", a.Destination, a.Source)
		}
	}
}

func TestBuildDuplicateRoutedToOriginalGroup(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"photos/a.jpg":     "X",
		"photos/sub/b.jpg": "X",
	})
	plan := fx.build(t, "*.jpg", fx.options(naming.RenameNone, naming.GroupShortHash, true))
	if len(plan.Actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(plan.Actions))
	}

	orig := actionFor(t, plan, "photos/a.jpg")
	dup := actionFor(t, plan, "photos/sub/b.jpg")
	wantGroup := naming.NewGrouper(naming.GroupShortHash, naming.Options{HashLength: 8}).GroupFor("photos")

	if orig.Kind != registry.Original || orig.Group != wantGroup {
		t.Fatalf("original = %+v, want group %s", orig, wantGroup)
	}
	if orig.Destination != filepath.Join(fx.dest, wantGroup.String(), "a.jpg") {
		t.Fatalf("original destination = %s", orig.Destination)
	}
	if dup.Kind != registry.Duplicate || dup.Group != wantGroup {
		t.Fatalf("duplicate = %+v, want group %s", dup, wantGroup)
	}
	if dup.Destination != filepath.Join(fx.dupes, wantGroup.String(), "b.jpg") {
		t.Fatalf("duplicate destination = %s", dup.Destination)
	}
}

func TestBuildLowercaseCollisionGetsSuffix(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"docs/Report.TXT":  "upper",
		"docs/report.txt":  "lower",
		"docs/report_1.md": "unrelated",
	})
	plan := fx.build(t, "*", fx.options(naming.RenameLowercase, naming.GroupIncremental, true))

	first := actionFor(t, plan, "docs/Report.TXT")
	second := actionFor(t, plan, "docs/report.txt")
	if filepath.Base(first.Destination) != "report.txt" {
		t.Fatalf("first destination = %s", first.Destination)
	}
	if filepath.Base(second.Destination) != "report_1.txt" {
		t.Fatalf("second destination = %s", second.Destination)
	}
	if second.Name != "report_1.txt" {
		t.Fatalf("action name = %s", second.Name)
	}
}

func TestBuildUntrackedDuplicatesStayOriginal(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"a/one.bin": "same",
		"b/two.bin": "same",
	})
	plan := fx.build(t, "*", fx.options(naming.RenameNone, naming.GroupShortHash, false))
	for _, a := range plan.Actions {
		if a.Kind != registry.Original {
			t.Fatalf("%s classified %v", a.Source, a.Kind)
		}
		if strings.HasPrefix(a.Destination, fx.dupes) {
			t.Fatalf("%s routed to duplicates area", a.Source)
		}
		if a.Fingerprint.IsZero() {
			t.Fatalf("%s was not fingerprinted", a.Source)
		}
	}
	if plan.Originals() != 2 {
		t.Fatalf("originals = %d, want 2", plan.Originals())
	}
}

func TestBuildIncrementalNamesFollowScanOrder(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"b.txt": "2",
		"a.txt": "1",
		"c":     "3",
	})
	plan := fx.build(t, "*", fx.options(naming.RenameIncremental, naming.GroupIncremental, true))
	want := []string{"0001.txt", "0002.txt", "0003"}
	for i, a := range plan.Actions {
		if a.Name != want[i] {
			t.Fatalf("action %d name = %s, want %s", i, a.Name, want[i])
		}
		if a.Group != "0001" {
			t.Fatalf("action %d group = %s, want 0001", i, a.Group)
		}
		if a.Seq != i+1 {
			t.Fatalf("action %d seq = %d", i, a.Seq)
		}
	}
}

func TestBuildRecordsFingerprintFailures(t *testing.T) {
	fx := newFixture(t, map[string]string{"a.txt": "a"})
	files := []scan.File{
		{Path: filepath.Join(fx.source, "a.txt"), RelPath: "a.txt", Subdir: ".", Name: "a.txt"},
		{Path: filepath.Join(fx.source, "gone.txt"), RelPath: "gone.txt", Subdir: ".", Name: "gone.txt"},
	}
	plan, err := planner.New(fx.options(naming.RenameNone, naming.GroupShortHash, true), nil).Build(context.Background(), files)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Actions) != 1 || len(plan.Failures) != 1 {
		t.Fatalf("actions=%d failures=%d", len(plan.Actions), len(plan.Failures))
	}
	if plan.Failures[0].Path != files[1].Path {
		t.Fatalf("failure path = %s", plan.Failures[0].Path)
	}
}

func TestBuildCancelled(t *testing.T) {
	fx := newFixture(t, map[string]string{"a.txt": "a", "b.txt": "b"})
	files, err := scan.New(scan.Options{}).Scan(context.Background(), fx.source, "*")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := planner.New(fx.options(naming.RenameNone, naming.GroupShortHash, true), nil).Build(ctx, files); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestRecordFor(t *testing.T) {
	fx := newFixture(t, map[string]string{"dir/file.txt": "content"})
	plan := fx.build(t, "*", fx.options(naming.RenameShortHash, naming.GroupShortHash, true))
	if len(plan.Actions) != 1 {
		t.Fatalf("actions = %d", len(plan.Actions))
	}
	a := plan.Actions[0]
	rec := planner.RecordFor(plan.RunID, a)
	if rec.RunID != "run-1" || rec.OriginalPath != a.Source || rec.DestinationPath != a.Destination {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Fingerprint != a.Fingerprint.Hex() || rec.Algorithm != "sha256" || rec.SizeBytes != 7 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.DestinationName != a.Fingerprint.Short(8)+".txt" {
		t.Fatalf("destination name = %s", rec.DestinationName)
	}
}
