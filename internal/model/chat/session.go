package chat

import (
	"fmt"
	"strings"
	"time"
)

// Session owns everything one user accumulates during a visit: the transcript,
// the journal and the currently selected mood. It is never shared between sessions.
type Session struct {
	ID         string            `json:"id"`
	ProfileID  string            `json:"profileId"`
	Mood       string            `json:"mood"`
	Transcript []TranscriptEntry `json:"transcript"`
	Journal    []JournalEntry    `json:"journal"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (s Session) Clone() Session {
	s.Transcript = append([]TranscriptEntry(nil), s.Transcript...)
	s.Journal = append([]JournalEntry(nil), s.Journal...)
	return s
}

// RenderTranscript renders the conversation as markdown, one "*Speaker:* text" line per entry.
func (s Session) RenderTranscript() string {
	var builder strings.Builder
	for _, entry := range s.Transcript {
		fmt.Fprintf(&builder, "*%s:* %s\n\n", entry.Speaker.Label(), entry.Text)
	}
	return builder.String()
}

// RenderJournal renders the journal as markdown under header. Empty journals render nothing.
func (s Session) RenderJournal(header string) string {
	if len(s.Journal) == 0 {
		return ""
	}

	var builder strings.Builder
	if header != "" {
		builder.WriteString("### ")
		builder.WriteString(header)
		builder.WriteString("\n\n")
	}
	for i, entry := range s.Journal {
		fmt.Fprintf(&builder, "*Entry %d:* %s\n\n", i+1, entry.Text)
	}
	return builder.String()
}
