// Package export renders graded reports in machine- and document-friendly
// formats: JSON, Markdown, HTML, SARIF and a shields.io badge.
package export

import (
	"encoding/json"
	"io"

	"github.com/openkraft/apigrade/internal/domain"
)

// WriteJSON encodes a single report as an object and several as an array.
func WriteJSON(w io.Writer, reports ...*domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	if reports == nil {
		reports = []*domain.Report{}
	}
	return enc.Encode(reports)
}
