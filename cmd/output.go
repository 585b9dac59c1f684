package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/comictalker/mangabaka/internal/comicmeta"
)

// stdout is swapped out by tests to capture command output.
var stdout io.Writer = os.Stdout

// renderSeriesList writes search candidates in rank order. The table format
// is for humans; json and yaml are for piping into other tools.
func renderSeriesList(w io.Writer, format string, series []comicmeta.Series) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(series)
	default:
		return renderSeriesTable(w, series)
	}
}

func renderSeriesTable(w io.Writer, series []comicmeta.Series) error {
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tFORMAT\tPUBLISHER\tRATING")
	for _, s := range series {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			truncateCell(s.Name, 50),
			zeroAsBlank(s.StartYear),
			s.Format,
			truncateCell(s.Publisher, 30),
			formatRating(s.Rating),
		)
	}
	return tw.Flush()
}

// renderMetadata writes one full metadata record. yaml is the default: the
// record is nested enough that a table would not survive contact with it.
func renderMetadata(w io.Writer, format string, md comicmeta.Metadata) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(md)
	default:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(md)
	}
}

func truncateCell(value string, width int) string {
	value = strings.ReplaceAll(value, "\t", " ")
	// Slice by runes so multibyte titles are never cut mid-character.
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}

func zeroAsBlank(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func formatRating(rating float64) string {
	if rating <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f", rating)
}
