package wellness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zhouzirui/calm-corner/backend/internal/analysis/emotion"
	"github.com/zhouzirui/calm-corner/backend/internal/model/chat"
	"github.com/zhouzirui/calm-corner/backend/internal/model/profile"
	"github.com/zhouzirui/calm-corner/backend/internal/observability"
	"github.com/zhouzirui/calm-corner/backend/internal/service/ai"
	chatService "github.com/zhouzirui/calm-corner/backend/internal/service/chat"
)

// ErrProfileNotFound is returned when a session or request names an unknown profile.
var ErrProfileNotFound = errors.New("profile not found")

// Apology is shown to the user when no reply could be produced.
const Apology = "Sorry, I couldn't come up with a reply just now. Please try again in a moment."

// Status stages emitted while an action is handled.
const (
	StageThinking = "thinking"
	StageSaved    = "saved"
)

// Status is an ephemeral progress notice for the client.
type Status struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// StatusFunc receives status notices. It may be nil.
type StatusFunc func(Status)

// Responder produces the bot reply for a composed prompt.
type Responder interface {
	Respond(ctx context.Context, prompt string, maxNewTokens int, temperature float64) (string, error)
}

// ChatResult describes the outcome of one chat submission.
type ChatResult struct {
	Skipped bool                  `json:"skipped"`
	Feeling string                `json:"feeling,omitempty"`
	Emotion string                `json:"emotion,omitempty"`
	User    *chat.TranscriptEntry `json:"user,omitempty"`
	Bot     *chat.TranscriptEntry `json:"bot,omitempty"`
}

// JournalResult describes the outcome of a journal save.
type JournalResult struct {
	Saved   bool               `json:"saved"`
	Index   int                `json:"index,omitempty"`
	Entry   *chat.JournalEntry `json:"entry,omitempty"`
	Display string             `json:"display,omitempty"`
	Status  string             `json:"status,omitempty"`
}

// View is everything a client needs to render a session.
type View struct {
	Session  chat.Session    `json:"session"`
	Profile  profile.Profile `json:"profile"`
	Markdown string          `json:"markdown"`
}

// Service coordinates one user action from emotion detection through recording.
type Service struct {
	profiles  profile.Store
	sessions  *chatService.Service
	responder Responder
	detector  *emotion.Detector
}

// NewService wires the controller.
func NewService(profiles profile.Store, sessions *chatService.Service, responder Responder) *Service {
	return &Service{
		profiles:  profiles,
		sessions:  sessions,
		responder: responder,
		detector:  emotion.NewDetector(emotion.DefaultGroups(), emotion.Neutral),
	}
}

// Profiles lists the available profiles.
func (s *Service) Profiles() []profile.Profile {
	return s.profiles.List()
}

// Profile resolves a profile by id.
func (s *Service) Profile(id string) (profile.Profile, error) {
	p, ok := s.profiles.FindByID(id)
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return p, nil
}

// StartSession creates a session for profileID. An empty mood selects the profile default.
func (s *Service) StartSession(ctx context.Context, profileID, mood string) (chat.Session, error) {
	p, err := s.Profile(profileID)
	if err != nil {
		return chat.Session{}, err
	}
	if strings.TrimSpace(mood) == "" {
		mood = p.DefaultMood
	}
	return s.sessions.CreateSession(ctx, p.ID, mood)
}

func (s *Service) sessionProfile(ctx context.Context, sessionID string) (chat.Session, profile.Profile, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return chat.Session{}, profile.Profile{}, err
	}
	p, err := s.Profile(session.ProfileID)
	if err != nil {
		return chat.Session{}, profile.Profile{}, err
	}
	return session, p, nil
}

// Feeling resolves which label the prompt is built around. Detect profiles use
// the detected emotion unless it is neutral, in which case the selected mood wins.
func (s *Service) Feeling(p profile.Profile, selectedMood, text string) (feeling string, detected emotion.Tag) {
	if !p.DetectEmotion {
		return selectedMood, ""
	}
	detected = s.detector.Detect(text)
	if detected == emotion.Neutral && strings.TrimSpace(selectedMood) != "" {
		return selectedMood, detected
	}
	return string(detected), detected
}

// SubmitChat handles one chat message. Blank text is skipped without calling the
// model. On failure the transcript is left untouched and the error wraps
// ai.ErrUpstream or ai.ErrEmptyResponse.
func (s *Service) SubmitChat(ctx context.Context, sessionID, text string, notify StatusFunc) (ChatResult, error) {
	session, p, err := s.sessionProfile(ctx, sessionID)
	if err != nil {
		return ChatResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return ChatResult{Skipped: true}, nil
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID, "profile_id", p.ID)

	feeling, detected := s.Feeling(p, session.Mood, text)
	prompt := ai.Compose(p.Prompt, text, feeling, p.Registry().Describe(feeling))

	if notify != nil {
		notify(Status{Stage: StageThinking, Message: p.Copy.Thinking})
	}

	reply, err := s.responder.Respond(ctx, prompt, p.MaxNewTokens, p.Temperature)
	if err != nil {
		log.Warn("chat reply failed", "error", err, "feeling", feeling)
		return ChatResult{Feeling: feeling, Emotion: string(detected)}, err
	}

	updated, err := s.sessions.AppendExchange(ctx, session.ID, text, reply, string(detected))
	if err != nil {
		return ChatResult{}, err
	}

	n := len(updated.Transcript)
	user, bot := updated.Transcript[n-2], updated.Transcript[n-1]
	log.Info("chat exchange recorded", "feeling", feeling, "transcript_length", n)

	return ChatResult{
		Feeling: feeling,
		Emotion: string(detected),
		User:    &user,
		Bot:     &bot,
	}, nil
}

// SaveJournal appends a journal entry. Blank text is a no-op.
func (s *Service) SaveJournal(ctx context.Context, sessionID, text string, notify StatusFunc) (JournalResult, error) {
	_, p, err := s.sessionProfile(ctx, sessionID)
	if err != nil {
		return JournalResult{}, err
	}

	session, saved, err := s.sessions.AppendJournalEntry(ctx, sessionID, text)
	if err != nil || !saved {
		return JournalResult{}, err
	}

	index := len(session.Journal)
	entry := session.Journal[index-1]

	if notify != nil {
		notify(Status{Stage: StageSaved, Message: p.Copy.JournalSaved})
	}

	return JournalResult{
		Saved:   true,
		Index:   index,
		Entry:   &entry,
		Display: chat.JournalLine(index, entry),
		Status:  p.Copy.JournalSaved,
	}, nil
}

// SetMood replaces the session mood.
func (s *Service) SetMood(ctx context.Context, sessionID, mood string) (chat.Session, error) {
	return s.sessions.SetMood(ctx, sessionID, mood)
}

// View returns the session with its profile and a markdown rendering.
func (s *Service) View(ctx context.Context, sessionID string) (View, error) {
	session, p, err := s.sessionProfile(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return View{Session: session, Profile: p, Markdown: Render(session, p)}, nil
}

// EndSession discards the session.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.EndSession(ctx, sessionID)
}

// Render draws the session as a markdown page: mood, transcript and journal.
func Render(session chat.Session, p profile.Profile) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "*Current mood:* %s\n\n", session.Mood)
	builder.WriteString(session.RenderTranscript())
	builder.WriteString(session.RenderJournal(p.Copy.EntriesHeader))
	return builder.String()
}
