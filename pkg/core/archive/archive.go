package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

const (
	// sidecarExtension marks informational files never offered as subtitles.
	sidecarExtension = ".nfo"

	// preferredExtension is the subtitle format listed first.
	preferredExtension = ".srt"
)

// Archive wraps a fully downloaded zip file held in memory.
type Archive struct {
	reader *zip.Reader
}

// Open reads the zip directory of the downloaded bytes.
func Open(data []byte) (*Archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading zip archive: %w", err)
	}
	return &Archive{reader: reader}, nil
}

// ListMembers returns the selectable member names: sidecar files are
// excluded, members in the preferred subtitle format come first, and
// each group keeps archive order so the first listed name is the best
// default suggestion.
func (a *Archive) ListMembers() []string {
	var preferred, rest []string
	for _, f := range a.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		lower := strings.ToLower(f.Name)
		switch {
		case strings.HasSuffix(lower, sidecarExtension):
			continue
		case strings.HasSuffix(lower, preferredExtension):
			preferred = append(preferred, f.Name)
		default:
			rest = append(rest, f.Name)
		}
	}
	return append(preferred, rest...)
}

// ExtractMember returns the fully buffered bytes of the named member.
func (a *Archive) ExtractMember(name string) ([]byte, error) {
	for _, f := range a.reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("extracting %s from the archive: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("extracting %s from the archive: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", coreerrors.ErrMemberNotFound, name)
}

// Extension returns the part of a member name after the final dot,
// which decides the extension of the written output file.
func Extension(name string) (string, error) {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return "", fmt.Errorf("%w: %s", coreerrors.ErrNoExtension, name)
	}
	return name[i+1:], nil
}
