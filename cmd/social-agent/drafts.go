// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/social-agent/internal/drafts"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Inspect and export archived generation runs",
	Long: `Drafts manages the local SQLite archive of generation runs written by
"generate --save". Use subcommands to list runs, search posts, export, or
delete a run.`,
}

// --- list subcommand ---

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := drafts.NewStore(draftsConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs archived.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-5s  %-6s  %s\n", "ID", "Created", "Posts", "Failed", "Topic")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for _, r := range runs {
			fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-5d  %-6d  %s\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Posts, r.Failed, r.Topic)
		}
		return nil
	},
}

// --- show subcommand ---

var draftsShowCmd = &cobra.Command{
	Use:   "show [query]",
	Short: "Search archived posts",
	Long: `Show lists archived posts, optionally filtered by run, platform, and a
case-insensitive text query matched against caption, hashtags and CTA.
Failed posts are hidden unless --include-failed is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := drafts.NewStore(draftsConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		results, err := store.Retrieve(cmd.Context(), draftsQueryFromFlags(cmd, args))
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		if len(results) == 0 {
			fmt.Println("No posts found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-8s  %-12s  %-3s  %s\n", "Run", "Platform", "Var", "Caption")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for _, r := range results {
			caption := r.Caption
			if len(caption) > 60 {
				caption = caption[:57] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-8s  %-12s  %-3d  %s\n", shortID(r.RunID), r.Platform, r.Variation, caption)
		}
		fmt.Fprintf(os.Stdout, "\n%d posts\n", len(results))
		return nil
	},
}

// --- export subcommand ---

var draftsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived posts to YAML or JSON",
	Long: `Export writes archived posts (or a filtered subset) to
<drafts-dir>/export.yaml or export.json. Supports the same filter flags
as show.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := drafts.NewStore(draftsConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		opts := draftsQueryFromFlags(cmd, args)

		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(cmd.Context(), opts)
		case "json":
			path, err = store.ExportJSON(cmd.Context(), opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

// --- delete subcommand ---

var draftsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete an archived run and its posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := drafts.NewStore(draftsConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted run", args[0])
		return nil
	},
}

// --- shared helpers ---

func draftsQueryFromFlags(cmd *cobra.Command, args []string) drafts.QueryOptions {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	runID, _ := cmd.Flags().GetString("run")
	platform, _ := cmd.Flags().GetString("platform")
	includeFailed, _ := cmd.Flags().GetBool("include-failed")
	limit, _ := cmd.Flags().GetInt("limit")

	return drafts.QueryOptions{
		RunID:         runID,
		Platform:      platform,
		Query:         query,
		IncludeFailed: includeFailed,
		MaxResults:    limit,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	draftsCmd.PersistentFlags().Int("max-results", 50, "default maximum number of listed items")
	viper.BindPFlag("max_results", draftsCmd.PersistentFlags().Lookup("max-results"))

	draftsListCmd.Flags().Int("limit", 0, "maximum runs (0 = use default)")

	for _, c := range []*cobra.Command{draftsShowCmd, draftsExportCmd} {
		c.Flags().String("query", "", "text filter on caption, hashtags and CTA")
		c.Flags().String("run", "", "filter by run ID")
		c.Flags().String("platform", "", "filter by platform")
		c.Flags().Bool("include-failed", false, "include posts that failed to generate")
	}
	draftsShowCmd.Flags().Int("limit", 0, "maximum posts (0 = use default)")
	draftsShowCmd.Flags().Bool("json", false, "output results as JSON")
	draftsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsShowCmd)
	draftsCmd.AddCommand(draftsExportCmd)
	draftsCmd.AddCommand(draftsDeleteCmd)

	rootCmd.AddCommand(draftsCmd)
}
