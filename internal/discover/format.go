// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes candidates as an aligned text table. topN caps the rows
// printed; zero or negative prints everything. Candidates that were never
// scored show "-" in the score column.
func FormatTable(res Result, topN int, w io.Writer) {
	if len(res.Candidates) == 0 {
		fmt.Fprintln(w, "No datasets found. Try rephrasing the query.")
		return
	}

	shown := res.Candidates
	if topN > 0 && len(shown) > topN {
		shown = shown[:topN]
	}

	fmt.Fprintf(w, "%-4s  %-45s  %-12s  %10s  %-5s  %s\n",
		"Rank", "Title", "Source", "Downloads", "Score", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	for i, c := range shown {
		score := "-"
		if c.Score != nil {
			score = fmt.Sprintf("%.2f", *c.Score)
		}
		fmt.Fprintf(w, "%-4d  %-45s  %-12s  %10d  %-5s  %s\n",
			i+1, truncate(c.Title, 45), c.Source, c.Downloads, score, c.URL)
	}

	fmt.Fprintf(w, "\n%d candidates", len(res.Candidates))
	if len(shown) < len(res.Candidates) {
		fmt.Fprintf(w, " (showing top %d)", len(shown))
	}
	if !res.Ranked {
		fmt.Fprintf(w, " (unranked: catalog order)")
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the full result, including the resolved query and any
// catalog errors, as indented JSON. topN caps the candidates emitted.
func FormatJSON(res Result, topN int, w io.Writer) error {
	if topN > 0 && len(res.Candidates) > topN {
		res.Candidates = res.Candidates[:topN]
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
