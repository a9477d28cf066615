package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Envelope wraps an exported report with its kind and export timestamp.
type Envelope struct {
	Kind       string `json:"kind"`
	ExportedAt string `json:"exportedAt"`
	Report     any    `json:"report"`
}

// WriteJSON writes a report to w as an indented JSON envelope. kind
// names the report type ("impact", "diff", "context", ...).
func WriteJSON(w io.Writer, kind string, report any) error {
	env := Envelope{
		Kind:       kind,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Report:     report,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encode %s export: %w", kind, err)
	}
	return nil
}
