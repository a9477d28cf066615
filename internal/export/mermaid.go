// Package export renders query reports into machine-consumable formats:
// Mermaid diagrams for humans and JSON for downstream tools.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/synapse/internal/query"
)

// ImpactMermaid produces a Mermaid graph TD diagram of a blast radius.
// Affected symbols are grouped by hop distance; arrows point from each
// caller toward the analysed symbol's tier below it.
func ImpactMermaid(report *query.ImpactReport) string {
	// Build node -> ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	rootID := getID(report.Symbol.ID)
	sb.WriteString(fmt.Sprintf("  %s[\"%s<br/>%s\"]\n",
		rootID, report.Symbol.Name, shortPath(report.Symbol.FilePath)))

	// Emit one subgraph per depth tier.
	for _, tier := range report.ByDepth() {
		depth := tier[0].Depth
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"Depth %d\"]\n", getID(fmt.Sprintf("tier_%d", depth)), depth))
		for _, entry := range tier {
			label := fmt.Sprintf("%s<br/>%s", entry.Node.Name, shortPath(entry.Node.FilePath))
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(entry.Node.ID), label))
		}
		sb.WriteString("  end\n")
	}

	// Emit caller arrows: depth-1 nodes point at the symbol, deeper
	// tiers point at the tier below them.
	tiers := report.ByDepth()
	for i, tier := range tiers {
		for _, entry := range tier {
			src := getID(entry.Node.ID)
			if i == 0 {
				edge := " --> "
				if entry.Confidence != nil && *entry.Confidence < 0.9 {
					edge = " -.-> "
				}
				sb.WriteString("  " + src + edge + rootID + "\n")
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", src, getID(fmt.Sprintf("tier_%d", tiers[i-1][0].Depth))))
		}
	}

	return sb.String()
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
