package scraper

import (
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/angelospk/subgrab/internal/constants"
	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

// Site scrapes one subtitle host. All links found on its pages are
// resolved against its base origin.
type Site struct {
	baseURL string
	logger  *log.Logger
}

// NewSite creates a scraper for the given base origin. An empty baseURL
// selects the default host; a nil logger selects the standard logger.
func NewSite(baseURL string, logger *log.Logger) *Site {
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Site{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// BaseURL returns the origin this site resolves links against.
func (s *Site) BaseURL() string {
	return s.baseURL
}

// SearchURL builds the hash-lookup URL for a language code and a movie
// fingerprint.
func (s *Site) SearchURL(language, hash string) (string, error) {
	raw := fmt.Sprintf("%s/pl/search/sublanguageid-%s/moviehash-%s", s.baseURL, language, hash)
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", fmt.Errorf("%w: %s", coreerrors.ErrInvalidURL, raw)
	}
	return raw, nil
}

// ResolveLink turns an href found on a page into an absolute URL. Pages
// on the host emit absolute and relative links inconsistently, so an
// href already on the base origin is kept as-is and anything else is
// treated as a path below it.
func (s *Site) ResolveLink(href string) (string, error) {
	raw := href
	if !strings.HasPrefix(href, s.baseURL) {
		raw = s.baseURL + href
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", fmt.Errorf("%w: %s", coreerrors.ErrInvalidURL, raw)
	}
	return raw, nil
}
