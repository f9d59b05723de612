// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the finder, the HTTP
// server, and the CLI.
package types

// ProjectResult describes a repository with a notebook that Colab can open.
// It is produced once per successful lookup and never mutated afterwards.
type ProjectResult struct {
	// Name is the repository name without the owner (e.g. "models").
	Name string `json:"name" yaml:"name"`

	// Description is the repository description. GitHub reports null for
	// repositories without one, so the field stays a pointer.
	Description *string `json:"description" yaml:"description"`

	// NotebookURL opens the notebook in Colab.
	NotebookURL string `json:"colab_url" yaml:"colab_url"`
}

// DescriptionOr returns the description, or fallback when none was set.
func (p ProjectResult) DescriptionOr(fallback string) string {
	if p.Description == nil || *p.Description == "" {
		return fallback
	}
	return *p.Description
}
