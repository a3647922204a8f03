package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/emotion-session/internal"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// emotionStyle colors an emotion by the sign of its valence
func emotionStyle(valence float64) lipgloss.Style {
	switch {
	case valence > 0:
		return successStyle
	case valence < 0:
		return errorStyle
	default:
		return warningStyle
	}
}

func renderAnalysis(w io.Writer, rec internal.AnalysisRecord) {
	fmt.Fprintln(w, replyStyle.Render(rec.AdaptiveResponse))
	fmt.Fprintf(w, "  %s %s  %s %s  %s %s  %s %s\n",
		dateStyle.Render("emotion"), emotionStyle(rec.Emotion.Valence).Render(rec.Emotion.Category),
		dateStyle.Render("valence"), formatFloat(rec.Emotion.Valence),
		dateStyle.Render("arousal"), formatFloat(rec.Emotion.Arousal),
		dateStyle.Render("confidence"), formatFloat(rec.Confidence),
	)
	fmt.Fprintf(w, "  %s %s\n", dateStyle.Render("session"), idStyle.Render(rec.SessionID))
}

func renderTrend(w io.Writer, trend internal.SessionTrend) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📈 Trend for %s", trend.SessionID)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", titleStyle.Render("Trend:"), emotionStyle(trend.AverageValence).Render(trend.TrendLabel))
	fmt.Fprintf(w, "  %s %s\n", titleStyle.Render("Description:"), trend.Description)
	if trend.Empty() {
		return
	}
	if trend.Direction != "" {
		fmt.Fprintf(w, "  %s %s\n", titleStyle.Render("Direction:"), trend.Direction)
	}
	fmt.Fprintf(w, "  %s %s\n", titleStyle.Render("Average valence:"), formatFloat(trend.AverageValence))
	fmt.Fprintf(w, "  %s %s\n", titleStyle.Render("Average confidence:"), formatFloat(trend.AverageConfidence))
	fmt.Fprintf(w, "  %s %s\n", titleStyle.Render("Analyses:"), countStyle.Render(strconv.Itoa(trend.TotalAnalyses)))
}

func renderHistory(w io.Writer, sessionID string, records []internal.AnalysisRecord, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📋 No analyses for %s", sessionID)))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📋 %d analysis(es) for %s, newest first", len(records), sessionID)))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, titleStyle.Render("When")+"\t"+titleStyle.Render("Emotion")+"\t"+titleStyle.Render("Valence")+"\t"+titleStyle.Render("Text")+"\t")
	_, _ = fmt.Fprintln(tw, strings.Repeat("─", 80))
	for _, rec := range records {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			dateStyle.Render(formatWhen(rec.Timestamp, now)),
			emotionStyle(rec.Emotion.Valence).Render(rec.Emotion.Category),
			formatFloat(rec.Emotion.Valence),
			truncate(rec.InputText, 50),
		)
	}
	_ = tw.Flush()
}

func renderSessions(w io.Writer, sessions []internal.SessionSummary, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, headerStyle.Render("📋 No sessions found"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, titleStyle.Render("ID")+"\t"+titleStyle.Render("Analyses")+"\t"+titleStyle.Render("Created")+"\t"+titleStyle.Render("Last activity")+"\t")
	_, _ = fmt.Fprintln(tw, strings.Repeat("─", 80))
	for _, s := range sessions {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(s.SessionID),
			countStyle.Render(strconv.Itoa(s.TotalAnalyses)),
			dateStyle.Render(formatWhen(s.CreatedAt, now)),
			dateStyle.Render(formatWhen(s.LastActivity, now)),
		)
	}
	_ = tw.Flush()
}

// formatWhen shortens timestamps the closer they are to now
func formatWhen(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
