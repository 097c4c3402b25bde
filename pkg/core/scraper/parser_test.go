package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

func resultsPage(rows ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="search_results">`)
	b.WriteString(`<tr><th>Movie name</th><th>Flag</th><th>CD</th><th>Sent</th><th>Download</th><th>Rating</th><th>Edits</th><th>IMDb</th><th>Uploader</th></tr>`)
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

func resultRow(name, href, rating string) string {
	return fmt.Sprintf(`<tr>
		<td> %s </td>
		<td>en</td>
		<td>1CD</td>
		<td>12x</td>
		<td><a href=%q>download</a></td>
		<td>%s</td>
		<td>2</td>
		<td>7.8</td>
		<td>uploader42</td>
	</tr>`, name, href, rating)
}

func newTestSite() (*Site, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewSite("http://example.test", logger), hook
}

func TestParseCandidatesStableSortAndTruncation(t *testing.T) {
	site, _ := newTestSite()
	page := resultsPage(
		resultRow("First 9.5", "/subtitles/1", "9.5"),
		resultRow("Middle 7.0", "/subtitles/2", "7.0"),
		resultRow("Second 9.5", "/subtitles/3", "9.5"),
	)

	candidates, err := site.ParseCandidates(page, 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Equal ratings keep document order; the 7.0 row is truncated away.
	assert.Equal(t, "First 9.5", candidates[0].Name)
	assert.Equal(t, "Second 9.5", candidates[1].Name)
	assert.Equal(t, "http://example.test/subtitles/1", candidates[0].DownloadURL)
	assert.Equal(t, "http://example.test/subtitles/3", candidates[1].DownloadURL)
}

func TestParseCandidatesKeepsAllWhenFewerThanTopN(t *testing.T) {
	site, _ := newTestSite()
	page := resultsPage(resultRow("Only one", "/subtitles/1", "8.1"))

	candidates, err := site.ParseCandidates(page, 5)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.InDelta(t, 8.1, candidates[0].Rating, 1e-9)
	assert.Equal(t, 2, candidates[0].Edits)
	assert.InDelta(t, 7.8, candidates[0].IMDbRating, 1e-9)
	assert.Equal(t, "uploader42", candidates[0].Uploader)
	assert.Equal(t, "1CD", candidates[0].CD)
}

func TestParseCandidatesDropsMalformedRowAndWarns(t *testing.T) {
	site, hook := newTestSite()
	page := resultsPage(
		resultRow("Good early", "/subtitles/1", "6.0"),
		resultRow("Bad rating", "/subtitles/2", "n/a"),
		resultRow("Good late", "/subtitles/3", "5.0"),
	)

	candidates, err := site.ParseCandidates(page, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2, "rows after the malformed one must still be parsed")
	assert.Equal(t, "Good early", candidates[0].Name)
	assert.Equal(t, "Good late", candidates[1].Name)

	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "malformed result row")
}

func TestParseCandidatesDropsRowWithMissingCells(t *testing.T) {
	site, hook := newTestSite()
	page := resultsPage(
		`<tr><td>short row</td><td>en</td></tr>`,
		resultRow("Complete", "/subtitles/9", "4.5"),
	)

	candidates, err := site.ParseCandidates(page, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Complete", candidates[0].Name)
	assert.NotEmpty(t, hook.Entries)
}

func TestParseCandidatesDropsRowWithoutLink(t *testing.T) {
	site, _ := newTestSite()
	row := `<tr><td>no link</td><td>en</td><td>1CD</td><td>12x</td><td>plain text</td><td>9.0</td><td>0</td><td>7.0</td><td>up</td></tr>`

	candidates, err := site.ParseCandidates(resultsPage(row), 10)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestParseCandidatesNoResultsTable(t *testing.T) {
	site, _ := newTestSite()

	_, err := site.ParseCandidates(`<html><body><p>nothing here</p></body></html>`, 1)
	assert.ErrorIs(t, err, coreerrors.ErrNoResultsTable)
}

func TestParseDownloadURL(t *testing.T) {
	site, _ := newTestSite()
	page := `<html><body><a id="bt-dwl-bt" href="/download/42">Download</a></body></html>`

	url, err := site.ParseDownloadURL(page)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/download/42", url)
}

func TestParseDownloadURLAbsoluteHref(t *testing.T) {
	site, _ := newTestSite()
	page := `<html><body><a id="bt-dwl-bt" href="http://example.test/download/42">Download</a></body></html>`

	url, err := site.ParseDownloadURL(page)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/download/42", url)
}

func TestParseDownloadURLMissingElement(t *testing.T) {
	site, _ := newTestSite()

	_, err := site.ParseDownloadURL(`<html><body><a href="/x">other</a></body></html>`)
	assert.ErrorIs(t, err, coreerrors.ErrNoDownloadLink)
}

func TestParseDownloadURLMissingHref(t *testing.T) {
	site, _ := newTestSite()

	_, err := site.ParseDownloadURL(`<html><body><a id="bt-dwl-bt">broken</a></body></html>`)
	assert.ErrorIs(t, err, coreerrors.ErrNoDownloadLink)
}

func TestCandidateLabel(t *testing.T) {
	c := Candidate{DownloadURL: "http://example.test/subtitles/7", Rating: 9.5}
	assert.Equal(t, "[http://example.test/subtitles/7 (rating: 9.5)]", c.Label())
}
