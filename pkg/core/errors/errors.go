package errors

import "errors"

// Failures that abort a pipeline run. Each pipeline step wraps these with
// the operation it was performing, so callers can match with errors.Is
// while the user still sees which step failed.
var (
	ErrInputTooSmall    = errors.New("subgrab: file too small to fingerprint (needs more than 65536 bytes)")
	ErrShortRead        = errors.New("subgrab: short read")
	ErrInvalidURL       = errors.New("subgrab: invalid url")
	ErrNetwork          = errors.New("subgrab: network request failed")
	ErrNoResultsTable   = errors.New("subgrab: no results table on search page")
	ErrNoDownloadLink   = errors.New("subgrab: no download link on detail page")
	ErrSelectionAborted = errors.New("subgrab: selection aborted")
	ErrMemberNotFound   = errors.New("subgrab: archive member not found")
	ErrNoExtension      = errors.New("subgrab: file name has no extension")
	ErrMuxFailed        = errors.New("subgrab: muxing subtitle into video failed")
)
