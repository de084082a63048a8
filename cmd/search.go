package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchPage int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the source catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		printSearchPage(cmd.OutOrStdout(), appCatalog.Search(query, searchPage), searchPage)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 0, "page number, starting at 0")
	rootCmd.AddCommand(searchCmd)
}
