package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version of colab-finder",
	Annotations: map[string]string{noLogFile: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("colab-finder %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
