package profile

import (
	"github.com/zhouzirui/calm-corner/backend/internal/analysis/emotion"
	"github.com/zhouzirui/calm-corner/backend/internal/model/mood"
)

// PromptStyle holds the wording a profile uses for its system segment.
// Feeling takes the mood or emotion label, Context the registry descriptor.
type PromptStyle struct {
	Persona    string   `json:"persona"`
	Feeling    string   `json:"feeling"`
	Context    string   `json:"context,omitempty"`
	Directives []string `json:"directives"`
	FollowUp   string   `json:"followUp"`
}

// Copy is the user-facing text a client renders for the profile.
type Copy struct {
	Title              string `json:"title"`
	Intro              string `json:"intro"`
	ChatPrompt         string `json:"chatPrompt"`
	ChatPlaceholder    string `json:"chatPlaceholder"`
	Thinking           string `json:"thinking"`
	MoodHeader         string `json:"moodHeader"`
	MoodQuestion       string `json:"moodQuestion"`
	JournalTitle       string `json:"journalTitle"`
	JournalIntro       string `json:"journalIntro"`
	JournalPrompt      string `json:"journalPrompt"`
	JournalPlaceholder string `json:"journalPlaceholder"`
	JournalSaved       string `json:"journalSaved"`
	EntriesHeader      string `json:"entriesHeader"`
}

// Profile captures one flavour of the companion: mood taxonomy, prompt wording
// and decoding parameters.
type Profile struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Moods         []mood.Mood `json:"moods"`
	DefaultMood   string      `json:"defaultMood"`
	DetectEmotion bool        `json:"detectEmotion"`
	MaxNewTokens  int         `json:"maxNewTokens"`
	Temperature   float64     `json:"temperature"`
	Prompt        PromptStyle `json:"-"`
	Copy          Copy        `json:"copy"`

	registry *mood.Registry
}

// Registry returns the profile's mood table.
func (p Profile) Registry() *mood.Registry {
	if p.registry != nil {
		return p.registry
	}
	return mood.NewRegistry(p.Moods, "")
}

func withRegistry(p Profile) Profile {
	p.registry = mood.NewRegistry(p.Moods, "")
	return p
}

const (
	Classic  = "classic"
	Spectrum = "spectrum"
	Detect   = "detect"
)

// Seed provides the built-in profiles.
func Seed() []Profile {
	return []Profile{
		withRegistry(Profile{
			ID:          Classic,
			Name:        "Student Wellness Chatbot",
			Description: "Six-mood tracker with a longer, tip-oriented reply.",
			Moods: []mood.Mood{
				{Label: "🙂 Normal"},
				{Label: "😢 Sad"},
				{Label: "😤 Angry"},
				{Label: "🙂‍↔️ Calm"},
				{Label: "😕 Upset"},
				{Label: "😎 Cool"},
			},
			DefaultMood:  "🙂 Normal",
			MaxNewTokens: 300,
			Temperature:  0.7,
			Prompt: PromptStyle{
				Persona: "You are a compassionate mental wellness chatbot for students.",
				Feeling: "The student is currently feeling %s",
				Directives: []string{
					"Detect emotional tone and respond with empathy, motivation, and relaxation tips.",
				},
				FollowUp: "After your response, ask a gentle follow-up question to encourage reflection or consideration of next steps.",
			},
			Copy: Copy{
				Title:              "🌱 Student Wellness Chatbot",
				Intro:              "Type how you're feeling. I'm here to support you with empathy and encouragement.",
				ChatPrompt:         "🌝 What's on your mind?",
				ChatPlaceholder:    "e.g., 'I feel anxious about exams'",
				Thinking:           "Thinking with empathy....",
				MoodHeader:         "🧠 Mood Tracker",
				MoodQuestion:       "How are you feeling today?",
				JournalTitle:       "📝 Personal Journal",
				JournalIntro:       "Write freely about your thoughts. This is just for you.",
				JournalPrompt:      "Today's reflection",
				JournalPlaceholder: "Write anything you want to reflect on....",
				JournalSaved:       "Journal entry saved!",
				EntriesHeader:      "📚 Your Entries",
			},
		}),
		withRegistry(Profile{
			ID:          Spectrum,
			Name:        "Student Emotional Wellness Chatbot",
			Description: "Twenty-three emotions with valence and energy descriptors.",
			Moods: []mood.Mood{
				{Label: "😄 Happy", Descriptor: "positive, high energy"},
				{Label: "🤩 Excited", Descriptor: "positive, very high energy"},
				{Label: "🙂 Calm", Descriptor: "positive, balanced energy"},
				{Label: "😌 Relaxed", Descriptor: "positive, low energy"},
				{Label: "😇 Content", Descriptor: "positive, peaceful energy"},
				{Label: "😢 Sad", Descriptor: "negative, low energy"},
				{Label: "😔 Lonely", Descriptor: "negative, low energy"},
				{Label: "😕 Confused", Descriptor: "neutral, medium energy"},
				{Label: "😬 Nervous", Descriptor: "negative, medium energy"},
				{Label: "😤 Angry", Descriptor: "negative, high energy"},
				{Label: "😟 Stressed", Descriptor: "negative, medium-high energy"},
				{Label: "😴 Tired", Descriptor: "neutral, very low energy"},
				{Label: "😐 Bored", Descriptor: "neutral, low energy"},
				{Label: "😲 Surprised", Descriptor: "neutral, high energy"},
				{Label: "😎 Confident", Descriptor: "positive, high energy"},
				{Label: "💛 Grateful", Descriptor: "positive, medium energy"},
				{Label: "💪 Motivated", Descriptor: "positive, high energy"},
				{Label: "😖 Frustrated", Descriptor: "negative, medium energy"},
				{Label: "😞 Disappointed", Descriptor: "negative, low energy"},
				{Label: "😳 Embarrassed", Descriptor: "negative, medium energy"},
				{Label: "😡 Furious", Descriptor: "negative, very high energy"},
				{Label: "😌 Peaceful", Descriptor: "positive, low energy"},
				{Label: "😕 Anxious", Descriptor: "negative, medium energy"},
			},
			DefaultMood:  "🙂 Calm",
			MaxNewTokens: 150,
			Temperature:  0.7,
			Prompt: PromptStyle{
				Persona: "You are a kind and emotionally intelligent wellness chatbot for students.",
				Feeling: "The student is feeling %s",
				Context: ", which reflects %s",
				Directives: []string{
					"Respond with empathy, emotional validation, and gentle encouragement.",
					"If appropriate, suggest one simple calming or grounding idea (like breathing, short breaks, or positive reflection).",
				},
				FollowUp: "End with ONE gentle follow-up question.",
			},
			Copy: Copy{
				Title:              "🫂 Student Emotional Wellness Chatbot",
				Intro:              "This is a safe place to share your thoughts freely, your feelings truly matter ✨",
				ChatPrompt:         "What's been on your mind today?",
				ChatPlaceholder:    "For example: I feel stressed about assignments",
				Thinking:           "Listening and responding thoughtfully...",
				MoodHeader:         "💆🏻 Quick Emotional Check-In",
				MoodQuestion:       "What's your mood right now?",
				JournalTitle:       "Mood Log 🗒️🖋️",
				JournalIntro:       "Write freely 🤸🏻 No judgment... Just your thoughts and feelings.",
				JournalPrompt:      "Today's Mood",
				JournalPlaceholder: "What happened today? How did it make you feel?",
				JournalSaved:       "✅ Your journal entry has been saved.",
				EntriesHeader:      "📚 Previous Reflections",
			},
		}),
		withRegistry(Profile{
			ID:          Detect,
			Name:        "Student Wellness Companion",
			Description: "Detects the emotion in each message and tailors the reply to it.",
			Moods: []mood.Mood{
				{Label: string(emotion.Happy), Descriptor: "positive, high energy"},
				{Label: string(emotion.Sad), Descriptor: "negative, low energy"},
				{Label: string(emotion.Angry), Descriptor: "negative, high energy"},
				{Label: string(emotion.Anxious), Descriptor: "negative, medium-high energy"},
				{Label: string(emotion.Calm), Descriptor: "positive, low energy"},
				{Label: string(emotion.Neutral), Descriptor: "neutral, balanced energy"},
			},
			DefaultMood:   string(emotion.Neutral),
			DetectEmotion: true,
			MaxNewTokens:  200,
			Temperature:   0.7,
			Prompt: PromptStyle{
				Persona: "You are an empathetic student wellness assistant.",
				Feeling: "The student's current emotion is %s",
				Context: ", which reflects %s",
				Directives: []string{
					"Respond with empathy and acknowledge how they feel.",
					"Offer motivation that fits their situation.",
					"Optionally suggest one short grounding exercise, such as slow breathing or a brief walk.",
				},
				FollowUp: "End with exactly one gentle follow-up question.",
			},
			Copy: Copy{
				Title:              "🌿 Student Wellness Companion",
				Intro:              "Tell me what's going on. I'll notice how you feel and respond with care.",
				ChatPrompt:         "How is today going?",
				ChatPlaceholder:    "e.g., 'I feel anxious about exams'",
				Thinking:           "Reading how you feel...",
				MoodHeader:         "🧠 Mood Tracker",
				MoodQuestion:       "How are you feeling today?",
				JournalTitle:       "📝 Personal Journal",
				JournalIntro:       "Write freely about your thoughts. This is just for you.",
				JournalPrompt:      "Today's reflection",
				JournalPlaceholder: "Write anything you want to reflect on....",
				JournalSaved:       "Journal entry saved!",
				EntriesHeader:      "📚 Your Entries",
			},
		}),
	}
}
