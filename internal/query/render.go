package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dusk-indust/synapse/internal/graph"
)

// ConfidenceTag returns the visual indicator appended to an edge line:
// nothing for c >= 0.9, " (~)" for 0.5 <= c < 0.9, " (?)" below that.
func ConfidenceTag(confidence float64) string {
	if confidence >= 0.9 {
		return ""
	}
	if confidence >= 0.5 {
		return " (~)"
	}
	return " (?)"
}

// DepthLabel names the breakage tier for a hop distance.
func DepthLabel(depth int) string {
	switch depth {
	case 1:
		return "Direct callers (will break)"
	case 2:
		return "Indirect (may break)"
	default:
		return "Transitive (review)"
	}
}

// titleLabel renders a node label for display ("function" -> "Function").
func titleLabel(label graph.NodeLabel) string {
	s := string(label)
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// snippetLine flattens and truncates a snippet for single-line display.
func snippetLine(snippet string) string {
	s := snippet
	if len(s) > 200 {
		cut := 200
		// Back off to a rune boundary so truncation never splits a
		// multi-byte sequence.
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// String renders the search report as bounded display text.
func (r *SearchReport) String() string {
	if r.Total == 0 {
		return fmt.Sprintf("No results found for %q.", r.Query)
	}

	var b strings.Builder
	counter := 1

	writeResult := func(res graph.SearchResult) {
		fmt.Fprintf(&b, "%d. %s (%s) -- %s\n", counter, res.Name, titleLabel(res.Label), res.FilePath)
		if res.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", snippetLine(res.Snippet))
		}
		counter++
	}

	for _, group := range r.Groups {
		fmt.Fprintf(&b, "=== %s ===\n", group.Process)
		for _, res := range group.Results {
			writeResult(res)
		}
		b.WriteString("\n")
	}
	if len(r.Ungrouped) > 0 {
		if len(r.Groups) > 0 {
			b.WriteString("=== Other results ===\n")
		}
		for _, res := range r.Ungrouped {
			writeResult(res)
		}
		b.WriteString("\n")
	}

	b.WriteString("Next: use context on a specific symbol for the full picture.")
	return b.String()
}

// String renders the context report. Section order is fixed: span,
// signature, dead-code status, callers, callees, type references.
func (r *ContextReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s (%s)\n", r.Node.Name, titleLabel(r.Node.Label))
	fmt.Fprintf(&b, "File: %s:%d-%d\n", r.Node.FilePath, r.Node.StartLine, r.Node.EndLine)
	if r.Node.Signature != "" {
		fmt.Fprintf(&b, "Signature: %s\n", r.Node.Signature)
	}
	if r.Node.IsDead {
		b.WriteString("Status: DEAD CODE (unreachable)\n")
	}

	if len(r.Callers) > 0 {
		fmt.Fprintf(&b, "\nCallers (%d):\n", len(r.Callers))
		for _, c := range r.Callers {
			fmt.Fprintf(&b, "  -> %s  %s:%d%s\n", c.Node.Name, c.Node.FilePath, c.Node.StartLine, ConfidenceTag(c.Confidence))
		}
	}
	if len(r.Callees) > 0 {
		fmt.Fprintf(&b, "\nCallees (%d):\n", len(r.Callees))
		for _, c := range r.Callees {
			fmt.Fprintf(&b, "  -> %s  %s:%d%s\n", c.Node.Name, c.Node.FilePath, c.Node.StartLine, ConfidenceTag(c.Confidence))
		}
	}
	if len(r.TypeRefs) > 0 {
		fmt.Fprintf(&b, "\nType references (%d):\n", len(r.TypeRefs))
		for _, t := range r.TypeRefs {
			fmt.Fprintf(&b, "  -> %s  %s\n", t.Name, t.FilePath)
		}
	}

	b.WriteString("\nNext: use impact if planning changes to this symbol.")
	return b.String()
}

// String renders the impact report with one section per hop distance.
func (r *ImpactReport) String() string {
	if len(r.Entries) == 0 {
		return fmt.Sprintf("No upstream callers found for %q.", r.Symbol.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Impact analysis for: %s (%s)\n", r.Symbol.Name, titleLabel(r.Symbol.Label))
	fmt.Fprintf(&b, "Depth: %d | Total: %d symbols\n", r.Depth, len(r.Entries))

	counter := 1
	for _, entries := range r.ByDepth() {
		fmt.Fprintf(&b, "\nDepth %d - %s:\n", entries[0].Depth, DepthLabel(entries[0].Depth))
		for _, entry := range entries {
			suffix := ""
			if entry.Confidence != nil {
				suffix = fmt.Sprintf("  (confidence: %.2f)", *entry.Confidence)
			}
			fmt.Fprintf(&b, "  %d. %s (%s) -- %s:%d%s\n",
				counter, entry.Node.Name, titleLabel(entry.Node.Label),
				entry.Node.FilePath, entry.Node.StartLine, suffix)
			counter++
		}
	}

	b.WriteString("\nTip: review each affected symbol before making changes.")
	return b.String()
}

// String renders the per-file diff mapping.
func (r *DiffReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Changed files: %d\n\n", len(r.Files))

	for _, f := range r.Files {
		fmt.Fprintf(&b, "  %s:\n", f.Path)
		switch {
		case f.Err != "":
			fmt.Fprintf(&b, "    (error querying symbols: %s)\n", f.Err)
		case len(f.Symbols) == 0:
			b.WriteString("    (no indexed symbols in changed lines)\n")
		default:
			for _, s := range f.Symbols {
				fmt.Fprintf(&b, "    - %s (%s) lines %d-%d\n",
					s.Node.Name, titleLabel(s.Node.Label), s.Node.StartLine, s.Node.EndLine)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total affected symbols: %d\n", r.TotalAffected())
	b.WriteString("\nNext: use impact on affected symbols to see downstream effects.")
	return b.String()
}

// String renders the dead-code report grouped by file.
func (r *DeadCodeReport) String() string {
	if r.Total == 0 {
		return "No dead code detected."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dead Code Report (%d symbols):\n", r.Total)
	for _, f := range r.Files {
		fmt.Fprintf(&b, "\n  %s:\n", f.Path)
		for _, s := range f.Symbols {
			fmt.Fprintf(&b, "    - %s (%s) line %d\n", s.Name, titleLabel(s.Label), s.StartLine)
		}
	}
	return b.String()
}

// FormatRows renders raw query rows as numbered pipe-separated lines.
func FormatRows(rows [][]any) string {
	if len(rows) == 0 {
		return "Query returned no results."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Results (%d rows):\n\n", len(rows))
	for i, row := range rows {
		vals := make([]string, len(row))
		for j, v := range row {
			vals[j] = fmt.Sprintf("%v", v)
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, strings.Join(vals, " | "))
	}
	return b.String()
}
