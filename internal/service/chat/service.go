package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/calm-corner/backend/internal/model/chat"
)

var (
	ErrProfileRequired = errors.New("profile id is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Service encapsulates per-session transcript, journal and mood state.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wraps store. A nil store falls back to an in-memory store without expiry.
func NewService(store Store) *Service {
	if store == nil {
		store = NewMemoryStore(0)
	}
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CreateSession provisions an anonymous, empty session bound to a profile.
func (s *Service) CreateSession(ctx context.Context, profileID, mood string) (chat.Session, error) {
	if profileID == "" {
		return chat.Session{}, ErrProfileRequired
	}

	now := s.now()
	session := chat.Session{
		ID:         uuid.NewString(),
		ProfileID:  profileID,
		Mood:       mood,
		Transcript: make([]chat.TranscriptEntry, 0, 16),
		Journal:    make([]chat.JournalEntry, 0, 4),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Create(ctx, session); err != nil {
		return chat.Session{}, err
	}
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(ctx context.Context, sessionID string) (chat.Session, error) {
	if sessionID == "" {
		return chat.Session{}, ErrSessionNotFound
	}
	return s.store.Load(ctx, sessionID)
}

// AppendExchange records a user message and the bot reply as one pair.
// emotion annotates the user entry and may be empty.
func (s *Service) AppendExchange(ctx context.Context, sessionID, userText, botText, emotion string) (chat.Session, error) {
	now := s.now()
	return s.store.Update(ctx, sessionID, func(session *chat.Session) error {
		session.Transcript = append(session.Transcript,
			chat.TranscriptEntry{Speaker: chat.SpeakerUser, Text: userText, Emotion: emotion, CreatedAt: now},
			chat.TranscriptEntry{Speaker: chat.SpeakerBot, Text: botText, CreatedAt: now},
		)
		session.UpdatedAt = now
		return nil
	})
}

// AppendJournalEntry stores text as a new journal entry and returns the session
// as written, so the new entry is its last journal element. Blank text is
// ignored and reported with false.
func (s *Service) AppendJournalEntry(ctx context.Context, sessionID, text string) (chat.Session, bool, error) {
	if strings.TrimSpace(text) == "" {
		session, err := s.GetSession(ctx, sessionID)
		return session, false, err
	}

	now := s.now()
	session, err := s.store.Update(ctx, sessionID, func(session *chat.Session) error {
		session.Journal = append(session.Journal, chat.JournalEntry{Text: text, CreatedAt: now})
		session.UpdatedAt = now
		return nil
	})
	if err != nil {
		return chat.Session{}, false, err
	}
	return session, true, nil
}

// SetMood replaces the current mood.
func (s *Service) SetMood(ctx context.Context, sessionID, mood string) (chat.Session, error) {
	now := s.now()
	return s.store.Update(ctx, sessionID, func(session *chat.Session) error {
		session.Mood = mood
		session.UpdatedAt = now
		return nil
	})
}

// LoadTranscript returns the transcript in insertion order.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.TranscriptEntry, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Transcript, nil
}

// LoadJournal returns the journal in insertion order.
func (s *Service) LoadJournal(ctx context.Context, sessionID string) ([]chat.JournalEntry, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Journal, nil
}

// EndSession destroys the session and all of its state.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionNotFound
	}
	return s.store.Delete(ctx, sessionID)
}
