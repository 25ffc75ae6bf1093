package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/postarr/internal/report"
	"github.com/vmunix/postarr/pkg/title"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <folder-name>...",
	Short: "Show the search query derived from folder names (local, no TMDB)",
	Example: `  postarr resolve "Show.Name.[1080p].S01.(2021)"
  postarr resolve --json "Peacemaker (2022) S01"`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	infos := make([]title.Info, 0, len(args))
	for _, name := range args {
		infos = append(infos, title.Parse(name))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if len(infos) == 1 {
			return printJSON(out, infos[0])
		}
		return printJSON(out, infos)
	}

	printer := report.New(out)
	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printer.TitleInfo(info)
	}
	return nil
}
