// Package report renders scan results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CodeSentinel/internal/model"
)

// Key is the identity of a finding across scans: a finding at the same
// path, line, and kind is the same finding even if the message changed.
func Key(f model.Finding) string {
	return fmt.Sprintf("%s:%d:%s", f.Path, f.Line, f.Kind)
}

// WriteText writes one line per finding followed by a summary block.
// Findings whose key is absent from known are marked as new; a nil known
// map disables the marker.
func WriteText(w io.Writer, result *model.ScanResult, known map[string]bool) error {
	for _, f := range result.Findings {
		marker := ""
		if known != nil && !known[Key(f)] {
			marker = " (new)"
		}
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s: %s%s\n",
			f.Path, f.Line, f.Col, f.Severity, f.Kind, f.Message, marker); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, Summary(result))
	return err
}

// WriteJSON writes the whole result as indented JSON.
func WriteJSON(w io.Writer, result *model.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// Summary formats the run totals.
func Summary(result *model.ScanResult) string {
	var b strings.Builder

	sum := result.Summary
	b.WriteString(fmt.Sprintf("\nscanned %s files (%s) in %s\n",
		humanize.Comma(int64(sum.Files)),
		humanize.IBytes(uint64(sum.Bytes)),
		sum.Duration().Round(summaryRound(sum)),
	))
	if sum.ParseErrors > 0 {
		b.WriteString(fmt.Sprintf("skipped %d unparsable files\n", sum.ParseErrors))
	}

	if len(result.Findings) == 0 {
		b.WriteString("no findings\n")
		return b.String()
	}

	counts := result.CountBySeverity()
	b.WriteString(fmt.Sprintf("%s findings", humanize.Comma(int64(len(result.Findings)))))
	var parts []string
	for _, sev := range []model.Severity{model.SeverityError, model.SeverityWarning, model.SeverityInfo} {
		if counts[sev] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		}
	}
	if len(parts) > 0 {
		b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}
	b.WriteString("\n")
	return b.String()
}

func summaryRound(sum model.ScanSummary) time.Duration {
	if sum.Duration() >= time.Second {
		return 10 * time.Millisecond
	}
	return 100 * time.Microsecond
}
