package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/calm-corner/backend/internal/model/profile"
)

// Role markers of the completion template. The assistant segment is left open.
const (
	systemMarker    = "<|system|>"
	userMarker      = "<|user|>"
	assistantMarker = "<|assistant|>"
)

const (
	defaultPersona  = "You are an empathetic wellness assistant for students."
	defaultFeeling  = "The student is feeling %s"
	defaultFollowUp = "End with exactly one gentle follow-up question."
)

// Compose builds the full completion prompt for one chat turn. feeling is the
// selected mood or detected emotion, context its registry descriptor (may be empty).
// userMessage is inserted verbatim.
func Compose(style profile.PromptStyle, userMessage, feeling, context string) string {
	var builder strings.Builder
	builder.WriteString(systemMarker)
	builder.WriteString("\n")
	builder.WriteString(SystemPrompt(style, feeling, context))
	builder.WriteString("\n")
	builder.WriteString(userMarker)
	builder.WriteString("\n")
	builder.WriteString(userMessage)
	builder.WriteString("\n")
	builder.WriteString(assistantMarker)
	return builder.String()
}

// SystemPrompt renders the system segment: persona, feeling, directives and a
// single closing follow-up instruction.
func SystemPrompt(style profile.PromptStyle, feeling, context string) string {
	persona := style.Persona
	if persona == "" {
		persona = defaultPersona
	}
	feelingTpl := style.Feeling
	if feelingTpl == "" {
		feelingTpl = defaultFeeling
	}
	followUp := style.FollowUp
	if followUp == "" {
		followUp = defaultFollowUp
	}

	line := fmt.Sprintf(feelingTpl, feeling)
	if style.Context != "" && strings.TrimSpace(context) != "" {
		line += fmt.Sprintf(style.Context, context)
	}

	parts := make([]string, 0, len(style.Directives)+3)
	parts = append(parts, persona, line+".")
	for _, d := range style.Directives {
		if d = strings.TrimSpace(d); d != "" {
			parts = append(parts, d)
		}
	}
	parts = append(parts, followUp)
	return strings.Join(parts, " ")
}
