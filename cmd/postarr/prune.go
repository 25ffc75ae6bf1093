package main

import (
	"github.com/spf13/cobra"

	"github.com/vmunix/postarr/internal/library"
	"github.com/vmunix/postarr/internal/report"
)

var pruneDryRun bool

var pruneCmd = &cobra.Command{
	Use:   "prune [root]",
	Short: "Delete stray .txt and non-poster .jpg files from title folders",
	Long: `Delete stray files from every title folder under root.

A file is removed when its extension is .txt, or when it is a .jpg
not named exactly poster.jpg. Only immediate files of each title
folder are considered. Root defaults to libraries.movies.root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Report what would be deleted without deleting")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	root, err := rootArg(args, cfg.Libraries.Movies.Root, "movies")
	if err != nil {
		return err
	}

	stats, err := library.NewPruner(logger, pruneDryRun).Prune(cmd.Context(), root)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"root":    root,
			"dry_run": pruneDryRun,
			"folders": stats.Folders,
			"deleted": stats.Deleted,
			"failed":  stats.Failed,
			"bytes":   stats.Bytes,
		})
	}

	report.New(cmd.OutOrStdout()).PruneSummary(stats, pruneDryRun)
	return nil
}
