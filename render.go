package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	titleWidth   = 60
	dateColWidth = 10
)

// RenderSearchResult writes a search result for the terminal. In list mode
// only an aligned date/title table is printed.
func RenderSearchResult(w io.Writer, result *SearchResult, msgs Messages, list bool) {
	fmt.Fprintf(w, "%s: %s\n", msgs.CurrentDate, result.ReferenceDate.Format(DateLayout))
	fmt.Fprintf(w, msgs.ResultsFound+"\n", len(result.Hits))
	if result.Alternate != "" {
		fmt.Fprintf(w, "(%s / %s)\n", result.Query, result.Alternate)
	}

	if len(result.Hits) == 0 {
		fmt.Fprintln(w, msgs.NoResults)
		return
	}
	fmt.Fprintln(w)

	if list {
		renderList(w, result.Hits)
		return
	}

	for i, hit := range result.Hits {
		if i > 0 {
			fmt.Fprintln(w)
		}
		heading := fmt.Sprintf("[%d] %s", i+1, truncateTitle(hit.Title, titleWidth))
		fmt.Fprintln(w, heading)
		fmt.Fprintln(w, strings.Repeat("─", runewidth.StringWidth(heading)))
		fmt.Fprintln(w, hit.Rendered)
	}
}

func renderList(w io.Writer, hits []SearchHit) {
	for i, hit := range hits {
		date := runewidth.FillRight(hit.Date.Format(DateLayout), dateColWidth)
		fmt.Fprintf(w, "%3d  %s  %s\n", i+1, date, truncateTitle(hit.Title, titleWidth))
	}
}

// truncateTitle shortens a title to width display columns. Gujarati
// combining marks take no column, so byte or rune counts are not used.
func truncateTitle(title string, width int) string {
	return runewidth.Truncate(title, width, "…")
}

// RenderHistory writes history entries, newest first
func RenderHistory(w io.Writer, entries []HistoryEntry, msgs Messages) {
	fmt.Fprintln(w, msgs.History)
	if len(entries) == 0 {
		fmt.Fprintln(w, msgs.NoHistory)
		return
	}

	for _, entry := range entries {
		prompt := runewidth.Truncate(strings.ReplaceAll(entry.Prompt, "\n", " "), 50, "...")
		fmt.Fprintf(w, "%s - %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"), prompt)
		fmt.Fprintln(w, entry.Result)
	}
}
