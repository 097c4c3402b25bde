package mux

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

// ffmpegCommand is the external remux binary.
const ffmpegCommand = "ffmpeg"

// CommandRunner executes an external command and returns its failure, if
// any. Injected so tests never spawn processes.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Request describes one soft-mux: add a subtitle file to a video as an
// additional text track without re-encoding anything else.
type Request struct {
	VideoPath    string
	SubtitlePath string
	Language     string // language tag for the new subtitle track
	OutputPath   string
}

// Muxer adds subtitle tracks to video containers using ffmpeg.
type Muxer struct {
	logger *log.Logger
	run    CommandRunner
}

// New constructs a muxer. A nil logger selects the standard logger.
func New(logger *log.Logger) *Muxer {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Muxer{
		logger: logger,
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner injects a custom command runner for tests.
func (m *Muxer) WithCommandRunner(r CommandRunner) *Muxer {
	if r != nil {
		m.run = r
	}
	return m
}

// Mux invokes ffmpeg with fixed arguments: map both inputs fully, copy
// every stream, recode only the subtitle into a codec the output
// container accepts, and tag its language. A non-zero exit status
// surfaces as ErrMuxFailed.
func (m *Muxer) Mux(ctx context.Context, req Request) error {
	args := buildFfmpegArgs(req)

	m.logger.Debugf("Executing %s %s", ffmpegCommand, strings.Join(args, " "))
	if err := m.run(ctx, ffmpegCommand, args...); err != nil {
		return fmt.Errorf("%w: %v", coreerrors.ErrMuxFailed, err)
	}

	m.logger.Infof("Muxed %s into %s", req.SubtitlePath, req.OutputPath)
	return nil
}

// buildFfmpegArgs constructs the ffmpeg command arguments.
func buildFfmpegArgs(req Request) []string {
	return []string{
		"-y",
		"-i", req.VideoPath,
		"-i", req.SubtitlePath,
		"-map", "0",
		"-map", "1:0",
		"-c", "copy",
		"-c:s", subtitleCodecFor(req.OutputPath),
		"-metadata:s:s:0", "language=" + req.Language,
		req.OutputPath,
	}
}

// subtitleCodecFor picks a text-subtitle codec the output container can
// carry. MP4-family containers need mov_text; everything else takes srt.
func subtitleCodecFor(outputPath string) string {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mp4", ".m4v", ".mov":
		return "mov_text"
	default:
		return "srt"
	}
}

// defaultCommandRunner executes the command and folds its combined
// output into the error on failure.
func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
