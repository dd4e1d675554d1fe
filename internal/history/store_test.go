package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"yee/internal/history"
	"yee/internal/testsupport"
)

func sampleRun(id string, started time.Time) history.Run {
	return history.Run{
		ID:              id,
		StartedAt:       started,
		FinishedAt:      started.Add(2 * time.Second),
		SourceDir:       "/src",
		DestinationDir:  "/out",
		DuplicatesDir:   "/out/_dupes",
		QueryPattern:    "*.jpg",
		RenameStyle:     "short-hash",
		GroupStyle:      "incremental",
		TrackDuplicates: true,
		Originals:       1,
		Duplicates:      1,
		Moved:           1,
		Failed:          1,
		Actions: []history.Action{
			{Seq: 1, Source: "/src/a.jpg", Destination: "/out/0001/abcd.jpg", Kind: "original", Group: "0001", Fingerprint: "abcd", Status: "moved"},
			{Seq: 2, Source: "/src/b.jpg", Destination: "/out/_dupes/0001/abcd.jpg", Kind: "duplicate", Group: "0001", Fingerprint: "abcd", DuplicateOf: "/src/a.jpg", Status: "failed", Error: "permission denied"},
		},
	}
}

func TestRecordAndReadRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := store.RecordRun(ctx, sampleRun("run-a", started)); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	run, err := store.Run(ctx, "run-a")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !run.StartedAt.Equal(started) || run.Duration() != 2*time.Second {
		t.Fatalf("unexpected timing: %v %v", run.StartedAt, run.Duration())
	}
	if run.QueryPattern != "*.jpg" || !run.TrackDuplicates || run.Moved != 1 || run.Failed != 1 {
		t.Fatalf("unexpected run: %#v", run)
	}
	if len(run.Actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(run.Actions))
	}
	if run.Actions[0].DuplicateOf != "" || run.Actions[0].Error != "" {
		t.Fatalf("unexpected first action: %#v", run.Actions[0])
	}
	if run.Actions[1].DuplicateOf != "/src/a.jpg" || run.Actions[1].Error != "permission denied" {
		t.Fatalf("unexpected second action: %#v", run.Actions[1])
	}
}

func TestRunsNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		if err := store.RecordRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("RecordRun %s: %v", id, err)
		}
	}

	runs, err := store.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "third" || runs[1].ID != "second" {
		t.Fatalf("unexpected runs: %v", runs)
	}
	all, err := store.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("runs = %d, want 3", len(all))
	}
}

func TestRunNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	_, err := store.Run(context.Background(), "missing")
	if !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run := sampleRun("dup", time.Now())
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := store.RecordRun(ctx, run); err == nil {
		t.Fatal("expected error for duplicate run id")
	}
	if err := store.RecordRun(ctx, history.Run{}); err == nil {
		t.Fatal("expected error for empty run id")
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.RecordRun(context.Background(), sampleRun("kept", time.Now())); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Path() != path {
		t.Fatalf("Path = %s, want %s", reopened.Path(), path)
	}
	runs, err := reopened.Runs(context.Background(), 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "kept" {
		t.Fatalf("unexpected runs after reopen: %v", runs)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE schema_version (version INTEGER NOT NULL); INSERT INTO schema_version (version) VALUES (99)"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
