package internal

import (
	"regexp"
	"strings"
)

// DefaultHistoryWindow is how many recent turns the responder sees
const DefaultHistoryWindow = 10

// disallowedChars matches everything except letters, digits, underscore,
// whitespace and basic punctuation.
var disallowedChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Zs}.,!?;:'-]`)

// Normalizer prepares caller input for analysis
type Normalizer struct {
	window int
}

// NewNormalizer creates a Normalizer keeping at most window history turns
func NewNormalizer(window int) *Normalizer {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Normalizer{window: window}
}

// Window returns the history window size.
func (n *Normalizer) Window() int {
	return n.window
}

// CleanText trims the text, drops unsupported characters and collapses
// whitespace runs. It returns an *InputError when nothing usable is left.
func (n *Normalizer) CleanText(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &InputError{Reason: "text is empty"}
	}

	cleaned := disallowedChars.ReplaceAllString(raw, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "", &InputError{Reason: "text has no analyzable characters"}
	}
	return cleaned, nil
}

// NormalizeHistory canonicalizes roles, drops blank turns, collapses
// consecutive repeats and keeps the most recent window turns. The input
// slice is never modified.
func (n *Normalizer) NormalizeHistory(turns []ConversationTurn) []ConversationTurn {
	out := make([]ConversationTurn, 0, len(turns))
	for _, turn := range turns {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		normalized := ConversationTurn{Role: n.normalizeRole(turn.Role), Text: text}
		if len(out) > 0 && out[len(out)-1] == normalized {
			continue
		}
		out = append(out, normalized)
	}

	if len(out) > n.window {
		out = out[len(out)-n.window:]
	}
	return out
}

// normalizeRole maps free-form role names onto user/assistant
func (n *Normalizer) normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "assistant", "bot", "ai", "agent", "system":
		return RoleAssistant
	default:
		return RoleUser
	}
}
