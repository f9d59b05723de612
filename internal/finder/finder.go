// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finder looks for a GitHub repository with a notebook that Colab
// can open. It runs a bounded loop of attempts; each attempt picks a random
// query and a random repository from its results, then looks for a
// notebook in the repository root or a Colab badge in its README.
package finder

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"

	"github.com/pdiddy/colab-finder/internal/github"
	"github.com/pdiddy/colab-finder/internal/logging"
	"github.com/pdiddy/colab-finder/pkg/types"
)

const (
	// DefaultMaxAttempts is used when the configuration leaves it unset.
	DefaultMaxAttempts = 10

	// ColabBase prefixes notebook links built from a repository listing.
	ColabBase = "https://colab.research.google.com/github/"

	notebookExt = ".ipynb"
	badgeImage  = "colab.research.google.com/assets/colab-badge.svg"
)

// DefaultQueries are the search templates used when none are configured.
var DefaultQueries = []string{
	`"Open in Colab" in:readme org:google`,
	`extension:ipynb org:tensorflow`,
	`extension:ipynb org:pytorch`,
	`extension:ipynb org:huggingface`,
	`"Colab Notebook" in:readme`,
}

// ErrNotFound is returned when every attempt failed to produce a project.
var ErrNotFound = errors.New("no suitable project found")

var badgeLink = regexp.MustCompile(`href="([^"]*colab\.research\.google\.com[^"]*)"`)

// Attempts that complete without a usable project end with one of these.
var (
	errNoItems  = errors.New("no items found")
	errUnusable = errors.New("no usable notebook or badge")
)

// RepoSource is the subset of the GitHub client the finder needs.
type RepoSource interface {
	SearchRepositories(ctx context.Context, query string) ([]github.Repository, error)
	ListContents(ctx context.Context, fullName string) ([]github.ContentEntry, error)
	FetchReadme(ctx context.Context, fullName string) (string, error)
}

// Rand picks an index in [0, n).
type Rand interface {
	IntN(n int) int
}

// globalRand uses the goroutine-safe top-level generator.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Finder runs the search loop. It holds no per-request state and is safe
// for concurrent use as long as its Rand is.
type Finder struct {
	source      RepoSource
	rnd         Rand
	queries     []string
	maxAttempts int
}

// Option customises a Finder.
type Option func(*Finder)

// WithRand replaces the randomness source.
func WithRand(r Rand) Option {
	return func(f *Finder) { f.rnd = r }
}

// New returns a Finder over source configured by cfg.
func New(source RepoSource, cfg types.FinderConfig, opts ...Option) *Finder {
	f := &Finder{
		source:      source,
		rnd:         globalRand{},
		queries:     cfg.Queries,
		maxAttempts: cfg.MaxAttempts,
	}
	if len(f.queries) == 0 {
		f.queries = DefaultQueries
	}
	if f.maxAttempts <= 0 {
		f.maxAttempts = DefaultMaxAttempts
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindProject runs up to the configured number of attempts and returns the
// first project found. Failures inside an attempt are logged and consume
// the attempt; only exhaustion (ErrNotFound) or a cancelled ctx is
// returned.
func (f *Finder) FindProject(ctx context.Context) (*types.ProjectResult, error) {
	logger := logging.Named(logging.FromContext(ctx), "finder")

	for n := 1; n <= f.maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("search abandoned", slog.Int("attempt", n), slog.Any("error", err))
			return nil, err
		}

		query := f.queries[f.rnd.IntN(len(f.queries))]
		alog := logger.With(slog.Int("attempt", n), slog.String("query", query))

		res, err := f.attempt(ctx, alog, query)
		if err == nil {
			alog.Info("project found",
				slog.String("name", res.Name),
				slog.String("colab_url", res.NotebookURL))
			return res, nil
		}
		logAttemptFailure(alog, err)
	}

	logger.Error("failed to find a suitable project", slog.Int("attempts", f.maxAttempts))
	return nil, ErrNotFound
}

// attempt performs one query-to-result cycle. A panic is turned into an
// error so that it consumes only this attempt.
func (f *Finder) attempt(ctx context.Context, logger *slog.Logger, query string) (res *types.ProjectResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()

	repos, err := f.source.SearchRepositories(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, errors.Wrapf(errNoItems, "query %q", query)
	}

	repo := repos[f.rnd.IntN(len(repos))]
	if repo.FullName == "" {
		return nil, errors.Wrap(errUnusable, "repository without full_name")
	}
	logger.Debug("inspecting repository", slog.String("repo", repo.FullName))

	entries, err := f.source.ListContents(ctx, repo.FullName)
	if err != nil {
		return nil, err
	}

	if nb, ok := firstNotebook(entries); ok {
		return newResult(repo, NotebookURL(repo.FullName, nb))
	}

	readme, err := f.source.FetchReadme(ctx, repo.FullName)
	if err != nil {
		logger.Debug("README unavailable", slog.String("repo", repo.FullName), slog.Any("error", err))
		return nil, errors.Wrapf(errUnusable, "in %s", repo.FullName)
	}
	if link, ok := BadgeLink(readme); ok {
		return newResult(repo, link)
	}
	return nil, errors.Wrapf(errUnusable, "in %s", repo.FullName)
}

// NotebookURL builds the Colab link for file at the root of fullName.
func NotebookURL(fullName, file string) string {
	return ColabBase + fullName + "/blob/" + github.ReadmeBranch + "/" + file
}

// BadgeLink returns the first Colab href in a README that shows the Colab
// badge.
func BadgeLink(readme string) (string, bool) {
	if !strings.Contains(readme, badgeImage) {
		return "", false
	}
	m := badgeLink.FindStringSubmatch(readme)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func firstNotebook(entries []github.ContentEntry) (string, bool) {
	for _, e := range entries {
		if strings.HasSuffix(e.Name, notebookExt) {
			return e.Name, true
		}
	}
	return "", false
}

// newResult validates the fields before handing out a result.
func newResult(repo github.Repository, link string) (*types.ProjectResult, error) {
	if repo.Name == "" {
		return nil, errors.Wrapf(errUnusable, "repository %s has no name", repo.FullName)
	}
	u, err := url.Parse(link)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, errors.Wrapf(errUnusable, "invalid notebook URL %q", link)
	}
	return &types.ProjectResult{
		Name:        repo.Name,
		Description: repo.Description,
		NotebookURL: link,
	}, nil
}

func logAttemptFailure(logger *slog.Logger, err error) {
	var pe *panicError
	switch {
	case errors.Is(err, errNoItems), errors.Is(err, errUnusable):
		logger.Warn(err.Error() + ", retrying")
	case errors.As(err, &pe):
		logger.Error("unexpected error during attempt",
			slog.Any("error", pe.value),
			slog.String("stack", string(pe.stack)))
	default:
		logger.Error("GitHub request failed during attempt",
			slog.Any("error", err),
			slog.String("stack", fmt.Sprintf("%+v", err)))
	}
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
