package scraper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

// Candidate is one parsed row of the search-results listing.
type Candidate struct {
	Name        string  // display name of the release
	Flag        string  // region/language flag label
	CD          string  // disc/part label, e.g. "1CD"
	Sent        string  // download-count label
	DownloadURL string  // absolute link to the candidate's detail page
	Rating      float64 // site rating, may be fractional
	Edits       int     // number of edits to the subtitle
	IMDbRating  float64 // external rating of the feature
	Uploader    string
}

// Label renders the candidate the way it is shown in selection prompts.
func (c Candidate) Label() string {
	return fmt.Sprintf("[%s (rating: %s)]", c.DownloadURL, strconv.FormatFloat(c.Rating, 'g', -1, 64))
}

// ParseCandidates extracts the ranked candidate set from a search-results
// page: every well-formed row of the results table, stably sorted by
// rating descending and truncated to topN. A malformed row is logged and
// skipped; it never aborts the page.
func (s *Site) ParseCandidates(page string, topN int) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	table := doc.Find("table#search_results")
	if table.Length() == 0 {
		return nil, coreerrors.ErrNoResultsTable
	}

	var candidates []Candidate
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		candidate, err := s.parseRow(row)
		if err != nil {
			s.logger.Warnf("Skipping malformed result row %d: %v", i, err)
			return
		}
		candidates = append(candidates, *candidate)
	})

	// Stable keeps document order among equal ratings.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rating > candidates[j].Rating
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates, nil
}

// parseRow extracts the nine ordered cells of one results row. Every
// cell must yield its field or the row as a whole is rejected.
func (s *Site) parseRow(row *goquery.Selection) (*Candidate, error) {
	cells := row.Find("td")
	if cells.Length() < 9 {
		return nil, fmt.Errorf("expected 9 cells, found %d", cells.Length())
	}

	text := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	name := text(0)
	if name == "" {
		return nil, fmt.Errorf("empty name cell")
	}

	href, ok := cells.Eq(4).Find("a").First().Attr("href")
	if !ok || href == "" {
		return nil, fmt.Errorf("download cell has no link")
	}
	downloadURL, err := s.ResolveLink(href)
	if err != nil {
		return nil, fmt.Errorf("resolving download link: %w", err)
	}

	rating, err := strconv.ParseFloat(text(5), 64)
	if err != nil {
		return nil, fmt.Errorf("parsing rating %q: %w", text(5), err)
	}
	edits, err := strconv.Atoi(text(6))
	if err != nil {
		return nil, fmt.Errorf("parsing edit count %q: %w", text(6), err)
	}
	imdbRating, err := strconv.ParseFloat(text(7), 64)
	if err != nil {
		return nil, fmt.Errorf("parsing external rating %q: %w", text(7), err)
	}

	return &Candidate{
		Name:        name,
		Flag:        text(1),
		CD:          text(2),
		Sent:        text(3),
		DownloadURL: downloadURL,
		Rating:      rating,
		Edits:       edits,
		IMDbRating:  imdbRating,
		Uploader:    text(8),
	}, nil
}

// ParseDownloadURL extracts the final binary download link from a
// candidate's detail page: the href of the download button, resolved
// against the base origin.
func (s *Site) ParseDownloadURL(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing detail page: %w", err)
	}

	link := doc.Find("#bt-dwl-bt").First()
	if link.Length() == 0 {
		return "", coreerrors.ErrNoDownloadLink
	}
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return "", coreerrors.ErrNoDownloadLink
	}
	return s.ResolveLink(href)
}
