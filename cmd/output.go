package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

func printEntries(w io.Writer, entries []model.NormalizedEntry, limit int) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if len(entries) == 0 {
		fmt.Fprintln(w, faint("No entries"))
		return
	}

	shown := entries
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	for _, e := range shown {
		fmt.Fprintf(w, "%s\n", bold(e.Title))

		meta := []string{e.PubDate}
		if e.RootTitle != "" {
			meta = append(meta, e.RootTitle)
		}
		if e.Category != "" {
			meta = append(meta, e.Category)
		}
		fmt.Fprintf(w, "  %s\n", faint(strings.Join(meta, " · ")))
		fmt.Fprintf(w, "  %s\n\n", cyan(e.Link))
	}

	if len(shown) < len(entries) {
		fmt.Fprintf(w, "%s\n", faint(fmt.Sprintf("... and %d more", len(entries)-len(shown))))
	}
}

func printSearchPage(w io.Writer, page model.SearchPage, current int) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if len(page.Data) == 0 {
		fmt.Fprintln(w, faint("Nothing found"))
		return
	}

	for _, e := range page.Data {
		fmt.Fprintf(w, "%s %s\n", bold(e.Title), faint("["+e.Category+"]"))
		fmt.Fprintf(w, "  %s\n", cyan(e.Link))
	}

	if page.TotalPages > 0 {
		fmt.Fprintf(w, "\n%s\n", faint(fmt.Sprintf("page %d of %d", current+1, page.TotalPages)))
	}
}
