package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yee/internal/failures"
	"yee/internal/sidecar"
	"yee/internal/testsupport"
)

type cliTestEnv struct {
	base       string
	source     string
	dest       string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	env := &cliTestEnv{
		base:       base,
		source:     filepath.Join(base, "src"),
		dest:       filepath.Join(base, "out"),
		configPath: filepath.Join(base, "yee.toml"),
	}
	content := fmt.Sprintf(
		"[paths]\nsource_dir = %q\ndestination_dir = %q\nhistory_path = %q\n\n[organize]\nrename_style = \"none\"\nworkers = 2\n\n[logging]\nlevel = \"error\"\n",
		env.source,
		env.dest,
		filepath.Join(base, "state", "history.db"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	testsupport.WriteTree(t, env.source, map[string]string{
		"photos/a.jpg":     "X",
		"photos/sub/b.jpg": "X",
		"docs/readme.md":   "readme",
	})
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestScanPrintsPlanOnly(t *testing.T) {
	env := setupCLITestEnv(t)

	for _, args := range [][]string{{"scan"}, {}} {
		out, err := runCLI(t, env, append(args, "--pattern", "*.jpg")...)
		if err != nil {
			t.Fatalf("scan %v: %v", args, err)
		}
		requireContains(t, out, "photos/a.jpg")
		requireContains(t, out, "duplicate")
		requireContains(t, out, "_dupes/")
		if strings.Contains(out, "readme.md") {
			t.Fatalf("pattern not applied: %s", out)
		}
	}
	if _, err := os.Stat(env.dest); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("scan must not create the destination")
	}
}

func TestMoveThenHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "move")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	requireContains(t, out, "Run summary")
	requireContains(t, out, "[OK] 3")

	if left := testsupport.ListFiles(t, env.source); len(left) != 2 {
		t.Fatalf("expected only sidecars left in source, got %v", left)
	}
	for _, rel := range testsupport.ListFiles(t, env.source) {
		if !strings.HasSuffix(rel, sidecar.Suffix) {
			t.Fatalf("unexpected file left in source: %s", rel)
		}
	}

	out, err = runCLI(t, env, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, env.source)

	found, err := sidecar.Discover(t.Context(), env.source)
	if err != nil || len(found) == 0 {
		t.Fatalf("Discover: %v (%d)", err, len(found))
	}
	runID := found[0].Record.RunID

	out, err = runCLI(t, env, "history", "show", runID)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Run "+runID)
	requireContains(t, out, "moved")

	out, err = runCLI(t, env, "sidecars")
	if err != nil {
		t.Fatalf("sidecars: %v", err)
	}
	requireContains(t, out, "photos/a.jpg")
	requireContains(t, out, runID)
}

func TestAllAliasWithDryRun(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "all", "--dry-run")
	if err != nil {
		t.Fatalf("all --dry-run: %v", err)
	}
	requireContains(t, out, "Would move")
	if _, err := os.Stat(env.dest); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("dry run must not create the destination")
	}
	out, err = runCLI(t, env, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded.")
}

func TestInvalidFlagValuesAreConfigurationErrors(t *testing.T) {
	env := setupCLITestEnv(t)

	tests := [][]string{
		{"scan", "--rename-style", "reverse"},
		{"scan", "--group-style", "by-date"},
		{"scan", "--pattern", "[a-"},
		{"scan", "--log-format", "xml"},
		{"scan", "--workers", "-1"},
	}
	for _, args := range tests {
		_, err := runCLI(t, env, args...)
		if !errors.Is(err, failures.ErrConfiguration) {
			t.Fatalf("%v: expected configuration error, got %v", args, err)
		}
	}
}

func TestSourceEqualsDestinationRejected(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, env, "scan", "--destination", env.source)
	if !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "OK")
	requireContains(t, out, env.source)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, err = runCLI(t, env, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Sample configuration written")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, err := runCLI(t, env, "config", "init", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, err := runCLI(t, env, "config", "init", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}
