package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *SessionExport, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", session.SessionID)

	trend := session.Trend
	_, _ = fmt.Fprintf(w, "**Trend:** %s (%s)  \n", trend.TrendLabel, trend.Description)
	if trend.Direction != "" {
		_, _ = fmt.Fprintf(w, "**Direction:** %s  \n", trend.Direction)
	}
	_, _ = fmt.Fprintf(w, "**Average valence:** %.4f  \n", trend.AverageValence)
	_, _ = fmt.Fprintf(w, "**Average confidence:** %.4f  \n", trend.AverageConfidence)
	_, _ = fmt.Fprintf(w, "**Analyses:** %d\n\n", trend.TotalAnalyses)

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Analyses\n\n")

	for i, rec := range session.Records {
		_, _ = fmt.Fprintf(w, "### %d. %s (%s)\n\n", i+1, rec.Emotion.Category, rec.Timestamp.UTC().Format(time.RFC3339))

		text := rec.OriginalText
		if text == "" {
			text = rec.InputText
		}
		_, _ = fmt.Fprintf(w, "> %s\n\n", escapeMarkdown(text))

		if rec.Context != "" {
			_, _ = fmt.Fprintf(w, "- **Context:** %s\n", rec.Context)
		}
		_, _ = fmt.Fprintf(w, "- **Sentiment:** %s (%.2f)\n", rec.Sentiment.Label, rec.Confidence)
		_, _ = fmt.Fprintf(w, "- **Valence / arousal:** %.2f / %.2f\n\n", rec.Emotion.Valence, rec.Emotion.Arousal)
		_, _ = fmt.Fprintf(w, "**Response:** %s\n\n", escapeMarkdown(rec.AdaptiveResponse))

		if i < len(session.Records)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown keeps user text from breaking the document layout
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "\\*\\*")
	text = strings.ReplaceAll(text, "__", "\\_\\_")
	// multi-line text stays inside the blockquote
	return strings.ReplaceAll(text, "\n", "\n> ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
