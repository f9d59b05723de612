// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package github

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/colab-finder/internal/httputil"
	"github.com/pdiddy/colab-finder/internal/logging"
	"github.com/pdiddy/colab-finder/pkg/types"
)

func testClient(ts *httptest.Server, token string) *Client {
	return NewClient(types.GitHubConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "colab-finder/test"},
		Token:      token,
		APIBase:    ts.URL,
		RawBase:    ts.URL + "/raw",
	})
}

func TestSearchRepositoriesRequest(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count":1,"items":[{"full_name":"org/repo","name":"repo","description":"demo","owner":{"login":"org"}}]}`)
	}))
	defer ts.Close()

	repos, err := testClient(ts, "").SearchRepositories(context.Background(), `"Colab Notebook" in:readme`)
	require.NoError(t, err)
	require.Len(t, repos, 1)

	assert.Equal(t, "/search/repositories", captured.URL.Path)
	q := captured.URL.Query()
	assert.Equal(t, `"Colab Notebook" in:readme`, q.Get("q"))
	assert.Equal(t, "stars", q.Get("sort"))
	assert.Equal(t, "desc", q.Get("order"))
	assert.Equal(t, "colab-finder/test", captured.Header.Get("User-Agent"))
	assert.Equal(t, acceptJSON, captured.Header.Get("Accept"))

	assert.Equal(t, "org/repo", repos[0].FullName)
	assert.Equal(t, "repo", repos[0].Name)
	require.NotNil(t, repos[0].Description)
	assert.Equal(t, "demo", *repos[0].Description)
	assert.Equal(t, "org", repos[0].Owner.Login)
}

func TestSearchRepositoriesNullDescription(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"full_name":"org/repo","name":"repo","description":null}]}`)
	}))
	defer ts.Close()

	repos, err := testClient(ts, "").SearchRepositories(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Nil(t, repos[0].Description)
}

func TestAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"with token", "ghp_abc123", "token ghp_abc123"},
		{"without token", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := map[string]string{}
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen[r.URL.Path] = r.Header.Get("Authorization")
				switch r.URL.Path {
				case "/search/repositories":
					fmt.Fprint(w, `{"items":[]}`)
				case "/repos/org/repo/contents":
					fmt.Fprint(w, `[]`)
				default:
					fmt.Fprint(w, "# readme")
				}
			}))
			defer ts.Close()

			c := testClient(ts, tt.token)
			ctx := context.Background()
			_, err := c.SearchRepositories(ctx, "q")
			require.NoError(t, err)
			_, err = c.ListContents(ctx, "org/repo")
			require.NoError(t, err)
			_, err = c.FetchReadme(ctx, "org/repo")
			require.NoError(t, err)

			assert.Equal(t, tt.want, seen["/search/repositories"])
			assert.Equal(t, tt.want, seen["/repos/org/repo/contents"])
			// The raw host never sees the token.
			assert.Empty(t, seen["/raw/org/repo/master/README.md"])
		})
	}
}

func TestListContentsPreservesOrder(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		fmt.Fprint(w, `[{"name":"b.ipynb","type":"file"},{"name":"README.md","type":"file"},{"name":"a.ipynb","type":"file"}]`)
	}))
	defer ts.Close()

	entries, err := testClient(ts, "").ListContents(context.Background(), "org/repo")
	require.NoError(t, err)

	assert.Equal(t, "/repos/org/repo/contents", path)
	require.Len(t, entries, 3)
	assert.Equal(t, "b.ipynb", entries[0].Name)
	assert.Equal(t, "a.ipynb", entries[2].Name)
}

func TestListContentsNonArrayBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"This repository is empty."}`)
	}))
	defer ts.Close()

	_, err := testClient(ts, "").ListContents(context.Background(), "org/repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing contents of org/repo")
}

func TestFetchReadme(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		fmt.Fprint(w, "# Title\n[![Open In Colab](https://colab.research.google.com/assets/colab-badge.svg)]")
	}))
	defer ts.Close()

	text, err := testClient(ts, "").FetchReadme(context.Background(), "org/repo")
	require.NoError(t, err)

	assert.Equal(t, "/raw/org/repo/master/README.md", path)
	assert.Contains(t, text, "colab-badge.svg")
}

func TestFetchReadmeTruncatesLargeFiles(t *testing.T) {
	badge := "[![Open In Colab](https://colab.research.google.com/assets/colab-badge.svg)]"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("a", maxReadme)+badge)
	}))
	defer ts.Close()

	var logs bytes.Buffer
	logger, _, err := logging.New(types.LogConfig{Level: "debug"}, &logs)
	require.NoError(t, err)
	ctx := logging.WithContext(context.Background(), logger)

	text, err := testClient(ts, "").FetchReadme(ctx, "org/big")
	require.NoError(t, err)

	assert.Len(t, text, maxReadme)
	assert.NotContains(t, text, "colab-badge.svg")
	assert.Contains(t, logs.String(), "README truncated")
	assert.Contains(t, logs.String(), "repo=org/big")
}

func TestHTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(c *Client) error
	}{
		{"search forbidden", http.StatusForbidden, func(c *Client) error {
			_, err := c.SearchRepositories(context.Background(), "q")
			return err
		}},
		{"contents not found", http.StatusNotFound, func(c *Client) error {
			_, err := c.ListContents(context.Background(), "org/repo")
			return err
		}},
		{"readme not found", http.StatusNotFound, func(c *Client) error {
			_, err := c.FetchReadme(context.Background(), "org/repo")
			return err
		}},
		{"readme no content", http.StatusNoContent, func(c *Client) error {
			_, err := c.FetchReadme(context.Background(), "org/repo")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			err := tt.call(testClient(ts, ""))
			require.Error(t, err)
			assert.True(t, httputil.IsStatus(err, tt.status), "got %v", err)
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(types.GitHubConfig{})
	assert.Equal(t, DefaultAPIBase, c.apiBase)
	assert.Equal(t, DefaultRawBase, c.rawBase)
	assert.NotEmpty(t, c.userAgent)

	c = NewClient(types.GitHubConfig{APIBase: "http://example.test/", RawBase: "http://raw.test/"})
	assert.Equal(t, "http://example.test", c.apiBase)
	assert.Equal(t, "http://raw.test", c.rawBase)
}
