package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/lexandro/resourcewatch/search"
	"github.com/lexandro/resourcewatch/tools"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find a term in the project's files and print the matches",
	Long: `Search every text file resource under the project root for a literal term.

Example usage:
  resourcewatch search TODO
  resourcewatch search --match-case --whole-word Config
  resourcewatch search --glob "**/*.py" import

Press Ctrl+C to cancel; the matches found so far are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchCase, _ := cmd.Flags().GetBool("match-case")
		wholeWord, _ := cmd.Flags().GetBool("whole-word")
		glob, _ := cmd.Flags().GetString("glob")

		p, err := openProject(settings, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		results := p.engine.Search(ctx, search.Query{
			Term:      args[0],
			MatchCase: matchCase,
			WholeWord: wholeWord,
			FileGlob:  glob,
		})

		fmt.Fprintln(cmd.OutOrStdout(), tools.FormatSearchResults(results))
		return nil
	},
}

func init() {
	searchCmd.Flags().Bool("match-case", false, "Case sensitive search")
	searchCmd.Flags().Bool("whole-word", false, "Only match whole words")
	searchCmd.Flags().String("glob", "", "Only search resources matching this glob (e.g. **/*.py)")

	rootCmd.AddCommand(searchCmd)
}
