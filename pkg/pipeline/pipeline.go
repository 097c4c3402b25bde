package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	ptn "github.com/razsteinmetz/go-ptn"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/angelospk/subgrab/internal/constants"
	"github.com/angelospk/subgrab/internal/httpclient"
	"github.com/angelospk/subgrab/pkg/core/archive"
	"github.com/angelospk/subgrab/pkg/core/fileops"
	"github.com/angelospk/subgrab/pkg/core/mux"
	"github.com/angelospk/subgrab/pkg/core/prompt"
	"github.com/angelospk/subgrab/pkg/core/scraper"
)

// Config holds the per-run parameters of the pipeline.
type Config struct {
	MoviePath string
	Language  string // subtitle language code, e.g. "eng"
	TopN      int    // how many top-ranked candidates to offer
	BaseURL   string // optional base-origin override
	UserAgent string // optional User-Agent override
}

// Pipeline runs the strictly sequential fetch flow: fingerprint the
// movie, search the host, rank and pick a candidate, resolve and
// download the archive, pick and extract a member, write it next to
// the movie, and optionally mux it in.
type Pipeline struct {
	cfg      Config
	fs       afero.Fs
	http     *httpclient.Client
	site     *scraper.Site
	prompter prompt.Prompter
	muxer    *mux.Muxer
	logger   *log.Logger
}

// New constructs a pipeline with production collaborators.
func New(cfg Config, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cfg.Language == "" {
		cfg.Language = constants.DefaultLanguage
	}
	if cfg.TopN < 1 {
		cfg.TopN = 1
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}
	return &Pipeline{
		cfg:      cfg,
		fs:       afero.NewOsFs(),
		http:     httpclient.New(userAgent),
		site:     scraper.NewSite(cfg.BaseURL, logger),
		prompter: prompt.NewTerminal(),
		muxer:    mux.New(logger),
		logger:   logger,
	}
}

// WithFs injects the filesystem used for reading the movie and writing
// the subtitle.
func (p *Pipeline) WithFs(fs afero.Fs) *Pipeline {
	if fs != nil {
		p.fs = fs
	}
	return p
}

// WithPrompter injects the interactive-selection collaborator.
func (p *Pipeline) WithPrompter(pr prompt.Prompter) *Pipeline {
	if pr != nil {
		p.prompter = pr
	}
	return p
}

// WithMuxer injects the external-mux collaborator.
func (p *Pipeline) WithMuxer(m *mux.Muxer) *Pipeline {
	if m != nil {
		p.muxer = m
	}
	return p
}

// run carries the intermediate products between steps. Each step fills
// the fields the next one needs.
type run struct {
	hash        string
	searchURL   string
	searchPage  string
	candidates  []scraper.Candidate
	chosen      scraper.Candidate
	detailPage  string
	downloadURL string
	archive     *archive.Archive
	members     []string
	member      string
	subtitle    []byte
	outputPath  string
}

// step is one fallible stage of the sequence. Its name prefixes any
// error so the user sees which operation failed.
type step struct {
	name string
	fn   func(ctx context.Context, r *run) error
}

func (p *Pipeline) steps() []step {
	return []step{
		{"fingerprinting", p.fingerprint},
		{"searching", p.search},
		{"ranking results", p.rankResults},
		{"selecting candidate", p.selectCandidate},
		{"fetching detail page", p.fetchDetailPage},
		{"resolving download", p.resolveDownload},
		{"downloading archive", p.downloadArchive},
		{"listing members", p.listMembers},
		{"selecting member", p.selectMember},
		{"extracting member", p.extractMember},
		{"writing output", p.writeOutput},
		{"muxing", p.maybeMux},
	}
}

// Run executes the steps in order and returns the path of the written
// subtitle file. The first failing step aborts the run; output already
// written stays on disk.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	p.logger.Infof("Fetching %s subtitles for %s", p.cfg.Language, describeMovie(p.cfg.MoviePath))

	r := &run{}
	for _, s := range p.steps() {
		p.logger.Debugf("Step: %s", s.name)
		if err := s.fn(ctx, r); err != nil {
			return "", fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return r.outputPath, nil
}

func (p *Pipeline) fingerprint(_ context.Context, r *run) error {
	hash, err := fileops.CalculateMovieHash(p.fs, p.cfg.MoviePath)
	if err != nil {
		return err
	}
	r.hash = hash
	p.logger.Infof("Movie hash: %s", hash)
	return nil
}

func (p *Pipeline) search(ctx context.Context, r *run) error {
	url, err := p.site.SearchURL(p.cfg.Language, r.hash)
	if err != nil {
		return err
	}
	r.searchURL = url

	p.logger.Debugf("Fetching search page %s", url)
	page, err := p.http.GetPage(ctx, url)
	if err != nil {
		return err
	}
	r.searchPage = page
	return nil
}

func (p *Pipeline) rankResults(_ context.Context, r *run) error {
	candidates, err := p.site.ParseCandidates(r.searchPage, p.cfg.TopN)
	if err != nil {
		return err
	}
	r.candidates = candidates
	p.logger.Infof("Found %d candidate(s)", len(candidates))
	return nil
}

func (p *Pipeline) selectCandidate(_ context.Context, r *run) error {
	chosen, err := prompt.ChooseOne(p.prompter, "Select a subtitle package", r.candidates, scraper.Candidate.Label)
	if err != nil {
		return err
	}
	r.chosen = chosen
	return nil
}

func (p *Pipeline) fetchDetailPage(ctx context.Context, r *run) error {
	p.logger.Debugf("Fetching detail page %s", r.chosen.DownloadURL)
	page, err := p.http.GetPage(ctx, r.chosen.DownloadURL)
	if err != nil {
		return err
	}
	r.detailPage = page
	return nil
}

func (p *Pipeline) resolveDownload(_ context.Context, r *run) error {
	url, err := p.site.ParseDownloadURL(r.detailPage)
	if err != nil {
		return err
	}
	r.downloadURL = url
	return nil
}

func (p *Pipeline) downloadArchive(ctx context.Context, r *run) error {
	p.logger.Debugf("Downloading archive %s", r.downloadURL)
	data, err := p.http.GetBytes(ctx, r.downloadURL)
	if err != nil {
		return err
	}
	a, err := archive.Open(data)
	if err != nil {
		return err
	}
	r.archive = a
	return nil
}

func (p *Pipeline) listMembers(_ context.Context, r *run) error {
	r.members = r.archive.ListMembers()
	p.logger.Infof("Archive members: %v", r.members)
	return nil
}

func (p *Pipeline) selectMember(_ context.Context, r *run) error {
	member, err := prompt.ChooseOne(p.prompter, "Select the subtitle file", r.members, func(name string) string { return name })
	if err != nil {
		return err
	}
	r.member = member
	return nil
}

func (p *Pipeline) extractMember(_ context.Context, r *run) error {
	data, err := r.archive.ExtractMember(r.member)
	if err != nil {
		return err
	}
	r.subtitle = data
	return nil
}

func (p *Pipeline) writeOutput(_ context.Context, r *run) error {
	ext, err := archive.Extension(r.member)
	if err != nil {
		return err
	}
	r.outputPath = fileops.ReplaceExtension(p.cfg.MoviePath, ext)
	return fileops.WriteFile(p.fs, r.outputPath, r.subtitle)
}

// maybeMux runs only when the user accepts the prompt. The subtitle file
// is already on disk at this point; a mux failure still fails the run.
func (p *Pipeline) maybeMux(ctx context.Context, r *run) error {
	ok, err := p.prompter.Confirm("Mux subtitle into the video as a soft track?")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	outputPath := fileops.WithSubsPath(p.cfg.MoviePath)
	if err := p.muxer.Mux(ctx, mux.Request{
		VideoPath:    p.cfg.MoviePath,
		SubtitlePath: r.outputPath,
		Language:     p.cfg.Language,
		OutputPath:   outputPath,
	}); err != nil {
		return err
	}
	p.logger.Infof("Wrote muxed video to %s", outputPath)
	return nil
}

// describeMovie renders a human-readable description of the movie from
// its release name, falling back to the bare filename when the name does
// not parse.
func describeMovie(path string) string {
	name := filepath.Base(path)
	parsed, err := ptn.Parse(name)
	if err != nil || parsed.Title == "" {
		return name
	}
	desc := parsed.Title
	if parsed.Year != 0 {
		desc = fmt.Sprintf("%s (%d)", desc, parsed.Year)
	}
	if parsed.Resolution != "" {
		desc += " " + parsed.Resolution
	}
	return desc
}
