package wellness_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zhouzirui/calm-corner/backend/internal/model/profile"
	"github.com/zhouzirui/calm-corner/backend/internal/service/ai"
	chatService "github.com/zhouzirui/calm-corner/backend/internal/service/chat"
	"github.com/zhouzirui/calm-corner/backend/internal/service/wellness"
)

type recordingResponder struct {
	reply   string
	err     error
	prompts []string
	tokens  int
	temp    float64
}

func (r *recordingResponder) Respond(_ context.Context, prompt string, maxNewTokens int, temperature float64) (string, error) {
	r.prompts = append(r.prompts, prompt)
	r.tokens = maxNewTokens
	r.temp = temperature
	return r.reply, r.err
}

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _ string, _ ai.Params) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func newController(responder wellness.Responder) (*wellness.Service, *chatService.Service) {
	sessions := chatService.NewService(chatService.NewMemoryStore(time.Hour))
	profiles := profile.NewMemoryStore(profile.Seed())
	return wellness.NewService(profiles, sessions, responder), sessions
}

func TestSubmitChatDetectsAnxiety(t *testing.T) {
	responder := &recordingResponder{reply: "That sounds stressful. What part of the exam worries you most?"}
	svc, _ := newController(responder)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, profile.Detect, "")
	if err != nil {
		t.Fatalf("StartSession err: %v", err)
	}

	var statuses []wellness.Status
	result, err := svc.SubmitChat(ctx, session.ID, "I'm worried about my exam tomorrow", func(s wellness.Status) {
		statuses = append(statuses, s)
	})
	if err != nil {
		t.Fatalf("SubmitChat err: %v", err)
	}

	if result.Feeling != "😟 Anxious" || result.Emotion != "😟 Anxious" {
		t.Fatalf("unexpected feeling: %+v", result)
	}
	if len(responder.prompts) != 1 || !strings.Contains(responder.prompts[0], "😟 Anxious") {
		t.Fatalf("prompt does not carry the detected emotion: %v", responder.prompts)
	}
	if responder.tokens != 200 || responder.temp != 0.7 {
		t.Fatalf("unexpected decoding params: %d %v", responder.tokens, responder.temp)
	}
	if len(statuses) != 1 || statuses[0].Stage != wellness.StageThinking || statuses[0].Message == "" {
		t.Fatalf("expected a thinking status, got %+v", statuses)
	}

	view, err := svc.View(ctx, session.ID)
	if err != nil {
		t.Fatalf("View err: %v", err)
	}
	transcript := view.Session.Transcript
	if len(transcript) != 2 {
		t.Fatalf("expected 2 transcript entries, got %d", len(transcript))
	}
	if transcript[0].Speaker.Label() != "You" || transcript[0].Text != "I'm worried about my exam tomorrow" {
		t.Fatalf("unexpected user entry: %+v", transcript[0])
	}
	if transcript[1].Speaker.Label() != "Bot" || transcript[1].Text != responder.reply {
		t.Fatalf("unexpected bot entry: %+v", transcript[1])
	}
}

func TestSubmitChatNeutralDetectionKeepsSelectedMood(t *testing.T) {
	responder := &recordingResponder{reply: "ok"}
	svc, _ := newController(responder)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, profile.Detect, "😢 Sad")
	result, err := svc.SubmitChat(ctx, session.ID, "nothing much to report", nil)
	if err != nil {
		t.Fatalf("SubmitChat err: %v", err)
	}
	if result.Feeling != "😢 Sad" {
		t.Fatalf("expected selected mood, got %q", result.Feeling)
	}
	if !strings.Contains(responder.prompts[0], "negative, low energy") {
		t.Fatalf("descriptor of selected mood missing: %s", responder.prompts[0])
	}
}

func TestSubmitChatUsesSelectedMoodDescriptor(t *testing.T) {
	responder := &recordingResponder{reply: "I'm here with you."}
	svc, _ := newController(responder)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, profile.Spectrum, "")
	if _, err := svc.SetMood(ctx, session.ID, "😟 Stressed"); err != nil {
		t.Fatalf("SetMood err: %v", err)
	}
	if _, err := svc.SubmitChat(ctx, session.ID, "so much homework", nil); err != nil {
		t.Fatalf("SubmitChat err: %v", err)
	}

	prompt := responder.prompts[0]
	if !strings.Contains(prompt, "😟 Stressed, which reflects negative, medium-high energy") {
		t.Fatalf("prompt missing mood context: %s", prompt)
	}
	if responder.tokens != 150 {
		t.Fatalf("unexpected max tokens %d", responder.tokens)
	}
}

func TestSubmitChatSkipsBlankInput(t *testing.T) {
	responder := &recordingResponder{reply: "unused"}
	svc, _ := newController(responder)
	ctx := context.Background()
	session, _ := svc.StartSession(ctx, profile.Classic, "")

	for _, blank := range []string{"", "   ", "\n"} {
		result, err := svc.SubmitChat(ctx, session.ID, blank, nil)
		if err != nil || !result.Skipped {
			t.Fatalf("blank %q: result=%+v err=%v", blank, result, err)
		}
	}
	if len(responder.prompts) != 0 {
		t.Fatalf("model called for blank input")
	}
	view, _ := svc.View(ctx, session.ID)
	if len(view.Session.Transcript) != 0 {
		t.Fatalf("blank input recorded")
	}
}

func TestSubmitChatTimeoutLeavesSessionUnchanged(t *testing.T) {
	svc, _ := newController(ai.NewService(blockingGenerator{}, 20*time.Millisecond))
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, profile.Spectrum, "😔 Lonely")
	if _, err := svc.SaveJournal(ctx, session.ID, "kept", nil); err != nil {
		t.Fatalf("SaveJournal err: %v", err)
	}

	_, err := svc.SubmitChat(ctx, session.ID, "is anyone there?", nil)
	if !errors.Is(err, ai.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	view, _ := svc.View(ctx, session.ID)
	if len(view.Session.Transcript) != 0 {
		t.Fatalf("failed exchange was recorded: %+v", view.Session.Transcript)
	}
	if view.Session.Mood != "😔 Lonely" {
		t.Fatalf("mood changed: %q", view.Session.Mood)
	}
	if len(view.Session.Journal) != 1 || view.Session.Journal[0].Text != "kept" {
		t.Fatalf("journal changed: %+v", view.Session.Journal)
	}
}

func TestSubmitChatEmptyReply(t *testing.T) {
	svc, _ := newController(&recordingResponder{err: ai.ErrEmptyResponse})
	ctx := context.Background()
	session, _ := svc.StartSession(ctx, profile.Classic, "")

	if _, err := svc.SubmitChat(ctx, session.ID, "hello", nil); !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestSubmitChatUnavailableBackend(t *testing.T) {
	svc, _ := newController(ai.NewService(ai.Unavailable("no backend configured"), time.Second))
	ctx := context.Background()
	session, _ := svc.StartSession(ctx, profile.Classic, "")

	if _, err := svc.SubmitChat(ctx, session.ID, "hello", nil); !errors.Is(err, ai.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestSaveJournal(t *testing.T) {
	svc, _ := newController(&recordingResponder{})
	ctx := context.Background()
	session, _ := svc.StartSession(ctx, profile.Classic, "")

	var statuses []wellness.Status
	result, err := svc.SaveJournal(ctx, session.ID, "Today was hard.", func(s wellness.Status) {
		statuses = append(statuses, s)
	})
	if err != nil {
		t.Fatalf("SaveJournal err: %v", err)
	}
	if !result.Saved || result.Index != 1 || result.Display != "Entry 1: Today was hard." {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Status != "Journal entry saved!" {
		t.Fatalf("unexpected status text %q", result.Status)
	}
	if len(statuses) != 1 || statuses[0].Stage != wellness.StageSaved {
		t.Fatalf("expected saved status, got %+v", statuses)
	}

	view, _ := svc.View(ctx, session.ID)
	if len(view.Session.Journal) != 1 || view.Session.Journal[0].Text != "Today was hard." {
		t.Fatalf("unexpected journal: %+v", view.Session.Journal)
	}
	if !strings.Contains(view.Markdown, "*Entry 1:* Today was hard.") {
		t.Fatalf("markdown missing entry: %s", view.Markdown)
	}
}

func TestSaveJournalConcurrentIndexesMatchEntries(t *testing.T) {
	svc, _ := newController(&recordingResponder{})
	ctx := context.Background()
	session, _ := svc.StartSession(ctx, profile.Classic, "")

	texts := []string{"rest", "run", "read", "call home", "sleep early"}
	results := make([]wellness.JournalResult, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			result, err := svc.SaveJournal(ctx, session.ID, text, nil)
			if err != nil {
				t.Errorf("SaveJournal err: %v", err)
			}
			results[i] = result
		}(i, text)
	}
	wg.Wait()

	view, _ := svc.View(ctx, session.ID)
	for i, result := range results {
		if result.Entry == nil || result.Entry.Text != texts[i] {
			t.Fatalf("result %d carries the wrong entry: %+v", i, result.Entry)
		}
		if got := view.Session.Journal[result.Index-1].Text; got != texts[i] {
			t.Fatalf("index %d points at %q, want %q", result.Index, got, texts[i])
		}
	}
}

func TestSaveJournalBlankIsNoop(t *testing.T) {
	svc, _ := newController(&recordingResponder{})
	ctx := context.Background()
	session, _ := svc.StartSession(ctx, profile.Classic, "")

	result, err := svc.SaveJournal(ctx, session.ID, "   ", func(wellness.Status) {
		t.Fatal("no status expected for blank entry")
	})
	if err != nil || result.Saved {
		t.Fatalf("unexpected result %+v err=%v", result, err)
	}
}

func TestStartSessionValidation(t *testing.T) {
	svc, _ := newController(&recordingResponder{})
	ctx := context.Background()

	if _, err := svc.StartSession(ctx, "unknown", ""); !errors.Is(err, wellness.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	session, err := svc.StartSession(ctx, profile.Spectrum, "")
	if err != nil {
		t.Fatalf("StartSession err: %v", err)
	}
	if session.Mood != "🙂 Calm" {
		t.Fatalf("expected default mood, got %q", session.Mood)
	}
}

func TestUnknownSession(t *testing.T) {
	svc, _ := newController(&recordingResponder{})
	ctx := context.Background()

	if _, err := svc.SubmitChat(ctx, "missing", "hi", nil); !errors.Is(err, chatService.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.View(ctx, "missing"); !errors.Is(err, chatService.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRender(t *testing.T) {
	responder := &recordingResponder{reply: "Hi there."}
	svc, _ := newController(responder)
	ctx := context.Background()
	session, _ := svc.StartSession(ctx, profile.Classic, "😎 Cool")
	_, _ = svc.SubmitChat(ctx, session.ID, "hello", nil)

	view, _ := svc.View(ctx, session.ID)
	want := "*Current mood:* 😎 Cool\n\n*You:* hello\n\n*Bot:* Hi there.\n\n"
	if view.Markdown != want {
		t.Fatalf("unexpected markdown:\n%q\nwant\n%q", view.Markdown, want)
	}
}
