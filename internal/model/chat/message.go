package chat

import (
	"fmt"
	"time"
)

// Speaker identifies who authored a transcript entry.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Label is the display name used when rendering the transcript.
func (s Speaker) Label() string {
	switch s {
	case SpeakerUser:
		return "You"
	case SpeakerBot:
		return "Bot"
	default:
		return string(s)
	}
}

// TranscriptEntry is one turn of the visible conversation.
type TranscriptEntry struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Emotion   string    `json:"emotion,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// JournalEntry is a free-text reflection saved by the user.
type JournalEntry struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// JournalLine renders an entry with its 1-based position, e.g. "Entry 1: Today was hard.".
func JournalLine(index int, entry JournalEntry) string {
	return fmt.Sprintf("Entry %d: %s", index, entry.Text)
}
