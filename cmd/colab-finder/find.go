// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/colab-finder/internal/finder"
	"github.com/pdiddy/colab-finder/internal/github"
	"github.com/pdiddy/colab-finder/internal/logging"
	"github.com/pdiddy/colab-finder/pkg/types"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find one project and print it",
	Long: `Find runs a single lookup against GitHub and prints the project name,
description, and Colab link. It exits non-zero when every attempt failed.`,
	RunE: runFind,
}

func init() {
	findCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	findCmd.Flags().Int("attempts", 0, "number of attempts (default 10)")
	viper.BindPFlag("finder.max_attempts", findCmd.Flags().Lookup("attempts"))

	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if !validFormat(format) {
		return fmt.Errorf("unknown format %q: use text, json, or yaml", format)
	}

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	f := finder.New(github.NewClient(cfg.GitHub), cfg.Finder)
	ctx := logging.WithContext(cmd.Context(), logger)

	res, err := f.FindProject(ctx)
	if err != nil {
		return fmt.Errorf("find project: %w", err)
	}
	return writeResult(os.Stdout, res, format)
}

func validFormat(format string) bool {
	switch format {
	case "text", "json", "yaml":
		return true
	}
	return false
}

// writeResult renders res to w in the given format.
func writeResult(w io.Writer, res *types.ProjectResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", res.Name, res.DescriptionOr("(no description)"), res.NotebookURL)
		return err
	}
}
