package export

import (
	"fmt"
	"io"
	"time"

	"github.com/iksnae/emotion-session/internal"
)

// SessionExport is everything written for one session
type SessionExport struct {
	SessionID  string                    `json:"session_id" yaml:"session_id"`
	ExportedAt time.Time                 `json:"exported_at" yaml:"exported_at"`
	Trend      internal.SessionTrend     `json:"trend" yaml:"trend"`
	Records    []internal.AnalysisRecord `json:"records" yaml:"records"`
}

// NewSessionExport bundles a session's records (oldest-first) with the
// trend computed over them
func NewSessionExport(sessionID string, records []internal.AnalysisRecord) *SessionExport {
	return &SessionExport{
		SessionID:  sessionID,
		ExportedAt: time.Now().UTC(),
		Trend:      internal.ComputeTrend(sessionID, records),
		Records:    records,
	}
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *SessionExport, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, &internal.ExportError{
			Format: format,
			Err:    fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format),
		}
	}
}
