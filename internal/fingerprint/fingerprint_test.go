package fingerprint

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileMatchesBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	content := []byte("hello world")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File returned error: %v", err)
	}
	if got != Bytes(content) {
		t.Fatalf("digest mismatch: got %s want %s", got, Bytes(content))
	}
	const want = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got.Hex() != want {
		t.Fatalf("unexpected hex: %s", got.Hex())
	}
}

func TestFileIgnoresNameAndLocation(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "one", "a.txt")
	b := filepath.Join(dir, "two", "renamed.dat")
	for _, p := range []string{a, b} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("same bytes"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	fa, err := File(a)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := File(b)
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Fatalf("expected identical fingerprints, got %s and %s", fa, fb)
	}
}

func TestReaderStreamsLargeInput(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), chunkSize/4)
	got, err := Reader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Reader returned error: %v", err)
	}
	if got != Bytes(payload) {
		t.Fatal("streamed digest differs from in-memory digest")
	}
}

func TestFileMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestShort(t *testing.T) {
	fp := Bytes([]byte("x"))
	if got := fp.Short(8); len(got) != 8 || !strings.HasPrefix(fp.Hex(), got) {
		t.Fatalf("Short(8) = %q", got)
	}
	if got := fp.Short(0); got != fp.Hex() {
		t.Fatalf("Short(0) should return full hex, got %q", got)
	}
	if got := fp.Short(500); got != fp.Hex() {
		t.Fatalf("Short(500) should clamp, got %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	fp := Bytes([]byte("payload"))
	parsed, err := Parse(fp.Hex())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed != fp {
		t.Fatal("parsed fingerprint differs")
	}
	if _, err := Parse("abcd"); err == nil {
		t.Fatal("expected error for short input")
	}
	if _, err := Parse("zz"); err == nil {
		t.Fatal("expected error for non-hex input")
	}
}
