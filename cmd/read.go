package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var readHTML bool

var readCmd = &cobra.Command{
	Use:   "read <url>",
	Short: "Show an article in reader mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := appReader.Extract(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if readHTML {
			fmt.Fprint(out, doc.HTML)
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "%s %s\n", faint("Link:"), cyan(doc.URL))
		if doc.Summary != "" {
			fmt.Fprintf(out, "%s %s\n", faint("Summary:"), doc.Summary)
		}
		fmt.Fprintln(out, strings.Repeat("─", 60))

		// Render with glamour for terminal display
		rendered, err := glamour.Render(doc.Markdown, "dark")
		if err != nil {
			fmt.Fprintf(out, "%s\n", faint("(markdown rendering unavailable, showing plain text)"))
			fmt.Fprintf(out, "\n%s\n", doc.Markdown)
			return nil
		}

		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	readCmd.Flags().BoolVar(&readHTML, "html", false, "print the standalone HTML document instead")
	rootCmd.AddCommand(readCmd)
}
