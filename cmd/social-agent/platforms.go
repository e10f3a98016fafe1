// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "Show the platform guidelines used in prompts",
	Long: `Platforms prints the per-platform caption limits and style notes. Entries
from --platforms-file (or platforms_file in the config) override built-in
platforms with the same name; new names are appended.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := guidelines()
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%-12s  %-10s  %s\n", "Platform", "Max length", "Style notes")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
		for _, g := range table.All() {
			fmt.Fprintf(os.Stdout, "%-12s  %-10d  %s\n", g.Platform, g.MaxLength, g.StyleNotes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
