package chat

import (
	"strings"
	"testing"
)

func TestJournalLine(t *testing.T) {
	got := JournalLine(1, JournalEntry{Text: "Today was hard."})
	if got != "Entry 1: Today was hard." {
		t.Fatalf("unexpected journal line: %q", got)
	}
}

func TestRenderTranscript(t *testing.T) {
	s := Session{Transcript: []TranscriptEntry{
		{Speaker: SpeakerUser, Text: "hi"},
		{Speaker: SpeakerBot, Text: "hello there"},
	}}

	want := "*You:* hi\n\n*Bot:* hello there\n\n"
	if got := s.RenderTranscript(); got != want {
		t.Fatalf("unexpected render:\n%q\nwant\n%q", got, want)
	}
}

func TestRenderJournal(t *testing.T) {
	var empty Session
	if got := empty.RenderJournal("Entries"); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}

	s := Session{Journal: []JournalEntry{{Text: "one"}, {Text: "two"}}}
	got := s.RenderJournal("📚 Your Entries")
	if !strings.HasPrefix(got, "### 📚 Your Entries\n\n") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "*Entry 2:* two") {
		t.Fatalf("missing second entry: %q", got)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	s := Session{Journal: []JournalEntry{{Text: "a"}}}
	c := s.Clone()
	c.Journal[0].Text = "b"
	if s.Journal[0].Text != "a" {
		t.Fatal("clone aliases journal")
	}
}
