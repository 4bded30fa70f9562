package record

import "strings"

// Voice is the recording attached to a dream record.
type Voice struct {
	ID  string
	URL string
}

// DetailRecord is one journal entry as returned by the remote service.
type DetailRecord struct {
	ID      string
	Title   string
	Date    string // raw, may contain parenthesis characters
	Content string
	Note    string
	Emotion int   // 0 when absent
	Genre   []int // 0 anywhere means "all genres"
	Voice   *Voice
}

// HasVoice reports whether a recording is attached.
func (r DetailRecord) HasVoice() bool {
	return r.Voice != nil
}

// VoiceURL returns the recording URL or "" when there is none.
func (r DetailRecord) VoiceURL() string {
	if r.Voice == nil {
		return ""
	}
	return r.Voice.URL
}

// HomeRecord is a card in the home feed.
type HomeRecord struct {
	ID      string
	Emotion int
	Date    string
	Title   string
	Genre   []int
	Content string
}

// Equal reports full value equality, used by list reconciliation.
func (h HomeRecord) Equal(other HomeRecord) bool {
	if h.ID != other.ID || h.Emotion != other.Emotion || h.Date != other.Date ||
		h.Title != other.Title || h.Content != other.Content || len(h.Genre) != len(other.Genre) {
		return false
	}
	for i := range h.Genre {
		if h.Genre[i] != other.Genre[i] {
			return false
		}
	}
	return true
}

// NewRecord is the payload for creating a record.
type NewRecord struct {
	Title   string
	Date    string
	Content string
	Note    string
	Emotion int
	Genre   []int
	VoiceID string
}

// FormatDate strips every '(' and ')' from a raw record date.
func FormatDate(raw string) string {
	return strings.NewReplacer("(", "", ")", "").Replace(raw)
}
