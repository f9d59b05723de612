// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package github queries the GitHub REST API and the raw file host for
// repositories that carry notebooks.
package github

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/pdiddy/colab-finder/internal/httputil"
	"github.com/pdiddy/colab-finder/internal/logging"
	"github.com/pdiddy/colab-finder/pkg/types"
)

const (
	DefaultAPIBase = "https://api.github.com"
	DefaultRawBase = "https://raw.githubusercontent.com"

	// ReadmeBranch is the branch the README and notebook links point at.
	ReadmeBranch = "master"

	acceptJSON = "application/vnd.github+json"
	maxReadme  = 1 << 20
)

// Client talks to the GitHub API and raw file host. The zero value is not
// usable; construct one with NewClient.
type Client struct {
	api       *http.Client
	raw       *http.Client
	apiBase   string
	rawBase   string
	userAgent string
}

// NewClient builds a client from cfg. API calls carry cfg.Token as
// "Authorization: token <TOKEN>" when it is set; raw file fetches never
// carry it.
func NewClient(cfg types.GitHubConfig) *Client {
	raw := &http.Client{Timeout: cfg.Timeout}

	api := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		api.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: cfg.Token,
				TokenType:   "token",
			}),
			Base: http.DefaultTransport,
		}
	}

	c := &Client{
		api:       api,
		raw:       raw,
		apiBase:   strings.TrimRight(cfg.APIBase, "/"),
		rawBase:   strings.TrimRight(cfg.RawBase, "/"),
		userAgent: cfg.UserAgent,
	}
	if c.apiBase == "" {
		c.apiBase = DefaultAPIBase
	}
	if c.rawBase == "" {
		c.rawBase = DefaultRawBase
	}
	if c.userAgent == "" {
		c.userAgent = "colab-finder"
	}
	return c
}

// SearchRepositories returns the first page of repositories matching query,
// sorted by stars in descending order.
func (c *Client) SearchRepositories(ctx context.Context, query string) ([]Repository, error) {
	params := url.Values{
		"q":     {query},
		"sort":  {"stars"},
		"order": {"desc"},
	}
	reqURL := c.apiBase + "/search/repositories?" + params.Encode()

	var sr searchResponse
	if err := httputil.GetJSON(ctx, c.api, reqURL, c.apiHeader(), &sr); err != nil {
		return nil, errors.Wrapf(err, "searching repositories for %q", query)
	}
	return sr.Items, nil
}

// ListContents returns the root directory listing of the repository
// fullName ("owner/repo") in the order the API reports it.
func (c *Client) ListContents(ctx context.Context, fullName string) ([]ContentEntry, error) {
	reqURL := c.apiBase + "/repos/" + fullName + "/contents"

	var entries []ContentEntry
	if err := httputil.GetJSON(ctx, c.api, reqURL, c.apiHeader(), &entries); err != nil {
		return nil, errors.Wrapf(err, "listing contents of %s", fullName)
	}
	return entries, nil
}

// FetchReadme returns README.md from the repository's master branch on the
// raw file host. Any status other than 200 is reported as a
// *httputil.StatusError.
func (c *Client) FetchReadme(ctx context.Context, fullName string) (string, error) {
	reqURL := c.rawBase + "/" + fullName + "/" + ReadmeBranch + "/README.md"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.Do(ctx, c.raw, req)
	if err != nil {
		return "", errors.Wrapf(err, "fetching README of %s", fullName)
	}
	defer resp.Body.Close()

	// 2xx other than 200 carries no usable body.
	if resp.StatusCode != http.StatusOK {
		return "", errors.WithStack(&httputil.StatusError{StatusCode: resp.StatusCode, URL: reqURL})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadme+1))
	if err != nil {
		return "", errors.Wrapf(err, "reading README of %s", fullName)
	}
	if len(body) > maxReadme {
		logging.FromContext(ctx).Debug("README truncated",
			slog.String("repo", fullName), slog.Int("limit", maxReadme))
		body = body[:maxReadme]
	}
	return string(body), nil
}

func (c *Client) apiHeader() http.Header {
	return http.Header{
		"Accept":     {acceptJSON},
		"User-Agent": {c.userAgent},
	}
}
