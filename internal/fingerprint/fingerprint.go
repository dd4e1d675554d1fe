package fingerprint

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Algorithm names the digest recorded in sidecars.
const Algorithm = "sha256"

// Size is the digest length in bytes.
const Size = sha256.Size

const chunkSize = 64 * 1024

// Fingerprint is a SHA-256 digest of a file's bytes.
type Fingerprint [Size]byte

// Hex returns the full lowercase hex rendering.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}

func (f Fingerprint) String() string {
	return f.Hex()
}

// Short returns the first n hex characters, clamped to the digest length.
func (f Fingerprint) Short(n int) string {
	full := f.Hex()
	if n <= 0 || n >= len(full) {
		return full
	}
	return full[:n]
}

// IsZero reports whether f is the zero value.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// Parse decodes a full hex rendering.
func Parse(value string) (Fingerprint, error) {
	var fp Fingerprint
	raw, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return fp, fmt.Errorf("decode fingerprint: %w", err)
	}
	if len(raw) != Size {
		return fp, fmt.Errorf("decode fingerprint: got %d bytes, want %d", len(raw), Size)
	}
	copy(fp[:], raw)
	return fp, nil
}

// Reader digests everything readable from r.
func Reader(r io.Reader) (Fingerprint, error) {
	var fp Fingerprint
	if r == nil {
		return fp, errors.New("fingerprint: nil reader")
	}
	hasher := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(hasher, bufio.NewReaderSize(r, chunkSize), buf); err != nil {
		return fp, err
	}
	copy(fp[:], hasher.Sum(nil))
	return fp, nil
}

// Bytes digests an in-memory payload.
func Bytes(data []byte) Fingerprint {
	return Fingerprint(sha256.Sum256(data))
}

// File opens path read-only and digests its content.
func File(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fp, err := Reader(f)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("read %s: %w", path, err)
	}
	return fp, nil
}
