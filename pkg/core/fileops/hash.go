package fileops

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

const (
	// HashBlockSize is the size of the window read from the start and end
	// of the file.
	HashBlockSize = 65536 // 64 * 1024

	// hashWordSize is the width of one accumulated word.
	hashWordSize = 8
)

// checksumBlock calculates the wrapping sum of the 64-bit little-endian
// words in the buffer. Little-endian is part of the hash contract: the
// same file must fingerprint identically on every platform.
func checksumBlock(buf []byte) (sum uint64) {
	for i := 0; i+hashWordSize <= len(buf); i += hashWordSize {
		sum += binary.LittleEndian.Uint64(buf[i : i+hashWordSize])
	}
	return
}

// CalculateMovieHash computes the hash-index fingerprint for a video file:
// the file size plus the word sums of the first and last 64 KiB, rendered
// as 16 lowercase hex digits. Overflow wraps; that is part of the
// algorithm. Files of 65536 bytes or fewer cannot supply two
// non-overlapping windows and are rejected. The middle of the file is
// never read, so files that differ only there hash identically.
func CalculateMovieHash(fs afero.Fs, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening '%s' for hashing: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("checking size of '%s': %w", path, err)
	}

	size := stat.Size()
	if size <= HashBlockSize {
		return "", fmt.Errorf("%w: '%s' is %d bytes", coreerrors.ErrInputTooSmall, path, size)
	}

	head := make([]byte, HashBlockSize)
	if _, err := io.ReadFull(file, head); err != nil {
		return "", shortReadErr(path, "head", err)
	}

	if _, err := file.Seek(size-HashBlockSize, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking to tail window of '%s': %w", path, err)
	}

	tail := make([]byte, HashBlockSize)
	if _, err := io.ReadFull(file, tail); err != nil {
		return "", shortReadErr(path, "tail", err)
	}

	// Seed with the file size, then fold in both windows. uint64
	// arithmetic wraps silently, which is exactly what the hash wants.
	hash := uint64(size) + checksumBlock(head) + checksumBlock(tail)

	return fmt.Sprintf("%016x", hash), nil
}

func shortReadErr(path, window string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s window of '%s'", coreerrors.ErrShortRead, window, path)
	}
	return fmt.Errorf("reading %s window of '%s': %w", window, path, err)
}
