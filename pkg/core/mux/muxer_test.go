package mux

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

func TestMuxBuildsExpectedCommand(t *testing.T) {
	logger, _ := test.NewNullLogger()

	var gotName string
	var gotArgs []string
	m := New(logger).WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	err := m.Mux(context.Background(), Request{
		VideoPath:    "/films/movie.mkv",
		SubtitlePath: "/films/movie.srt",
		Language:     "eng",
		OutputPath:   "/films/movie.with-subs.mkv",
	})
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", gotName)
	assert.Equal(t, []string{
		"-y",
		"-i", "/films/movie.mkv",
		"-i", "/films/movie.srt",
		"-map", "0",
		"-map", "1:0",
		"-c", "copy",
		"-c:s", "srt",
		"-metadata:s:s:0", "language=eng",
		"/films/movie.with-subs.mkv",
	}, gotArgs)
}

func TestMuxFailureSurfacesAsMuxFailed(t *testing.T) {
	logger, _ := test.NewNullLogger()

	m := New(logger).WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})

	err := m.Mux(context.Background(), Request{
		VideoPath:    "movie.mkv",
		SubtitlePath: "movie.srt",
		Language:     "eng",
		OutputPath:   "movie.with-subs.mkv",
	})
	assert.ErrorIs(t, err, coreerrors.ErrMuxFailed)
}

func TestSubtitleCodecFor(t *testing.T) {
	assert.Equal(t, "mov_text", subtitleCodecFor("movie.with-subs.mp4"))
	assert.Equal(t, "mov_text", subtitleCodecFor("movie.with-subs.M4V"))
	assert.Equal(t, "srt", subtitleCodecFor("movie.with-subs.mkv"))
	assert.Equal(t, "srt", subtitleCodecFor("movie.with-subs.avi"))
}
