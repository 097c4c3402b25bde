package fileops

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ReplaceExtension returns path with its extension swapped for ext
// (given without the leading dot). A path with no extension gets one
// appended.
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// WithSubsPath returns the output path for a muxed copy of the video:
// the original path with ".with-subs" spliced in before the extension.
func WithSubsPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".with-subs" + ext
}

// WriteFile writes data to path on the given filesystem.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing subtitle file to '%s': %w", path, err)
	}
	return nil
}
