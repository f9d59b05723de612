// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package github

// Repository is the subset of a GitHub repository object the finder uses.
type Repository struct {
	FullName      string  `json:"full_name"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	HTMLURL       string  `json:"html_url"`
	Stars         int     `json:"stargazers_count"`
	DefaultBranch string  `json:"default_branch"`
	Owner         Owner   `json:"owner"`
}

// Owner identifies the account that owns a repository.
type Owner struct {
	Login string `json:"login"`
}

// ContentEntry is one item of a directory listing.
type ContentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// searchResponse is the envelope of /search/repositories.
type searchResponse struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []Repository `json:"items"`
}
