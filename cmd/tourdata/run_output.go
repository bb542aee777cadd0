package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
	"github.com/cheeseinvert/tour-data-eda/internal/logging"
)

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newProgress returns a per-lookup callback. On a terminal it drives a
// progress bar; otherwise each lookup is a debug log line.
func newProgress[V any](logger *slog.Logger, description string) enrich.ProgressFunc[V] {
	if stderrIsTerminal() {
		var bar *progressbar.ProgressBar
		return func(index, total int, subject string, result enrich.Result[V]) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription(description),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionClearOnFinish(),
					progressbar.OptionShowCount(),
				)
			}
			_ = bar.Add(1)
		}
	}
	return func(index, total int, subject string, result enrich.Result[V]) {
		logger.Debug("lookup progress",
			logging.Int("index", index),
			logging.Int("total", total),
			logging.String("subject", subject),
			logging.Bool("found", result.Found))
	}
}

func printSummary(out io.Writer, summary *enrich.Summary) {
	rows := [][]string{
		{"Provider", summary.Provider},
		{"Dataset rows", strconv.Itoa(summary.Rows)},
		{"Mapping entries", strconv.Itoa(summary.MappingSize + summary.Added)},
		{"Subjects looked up", strconv.Itoa(len(summary.Unmapped))},
		{"New mappings", strconv.Itoa(summary.Added)},
		{"Failed lookups", strconv.Itoa(len(summary.Failed))},
		{"Rows enriched", strconv.Itoa(summary.MappedRows)},
		{"Rows left empty", strconv.Itoa(summary.UnmappedRows)},
	}
	if summary.OutputSaved {
		rows = append(rows, []string{"Output", summary.OutputPath})
	} else {
		rows = append(rows, []string{"Output", "(dry run, not written)"})
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))

	if len(summary.Failed) > 0 {
		fmt.Fprintf(out, "Could not resolve: %s\n", strings.Join(summary.Failed, ", "))
	}
}
