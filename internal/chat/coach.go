// Package chat drives the AI nutrition coach: free-form conversations that
// answer meal, nutrition, and training questions grounded in the user's
// profile.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nutriai/nutriai-server/internal/ai"
	"github.com/nutriai/nutriai-server/internal/store"
)

// ErrEmptyReply is returned when the model answers with nothing usable.
var ErrEmptyReply = errors.New("chat: empty reply from AI backend")

const maxTitleLength = 50

type Coach struct {
	aiClient ai.Client
	logger   *slog.Logger
}

func NewCoach(aiClient ai.Client, logger *slog.Logger) *Coach {
	return &Coach{aiClient: aiClient, logger: logger}
}

// Reply produces the assistant's next message for a conversation. The
// profile may be nil; the transcript is oldest first.
func (c *Coach) Reply(ctx context.Context, profile *store.Profile, history []*store.ChatMessage, message string) (string, error) {
	prompt := buildPrompt(profile, history, message)

	reply, err := c.aiClient.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// ConversationTitle derives a title from the opening message, capped at 50
// characters.
func ConversationTitle(message string) string {
	runes := []rune(strings.TrimSpace(message))
	if len(runes) <= maxTitleLength {
		return string(runes)
	}
	return string(runes[:maxTitleLength]) + "..."
}

func buildPrompt(profile *store.Profile, history []*store.ChatMessage, message string) string {
	var b strings.Builder
	b.WriteString(`You are NutriAI, a friendly and knowledgeable nutrition and fitness coach assistant.
You help users with meal planning, nutrition advice, workout suggestions, and health-related questions.
Always consider the user's profile information when giving advice.

USER PROFILE:
`)
	b.WriteString(profileContext(profile))
	b.WriteString(`

INSTRUCTIONS:
- Give personalized advice based on the user's profile (goals, targets, etc.)
- Be supportive and encouraging
- Provide practical, actionable advice
- If asked about medical conditions, recommend consulting a healthcare professional
- Keep responses concise but helpful
- Reply with the assistant's next message only, no role prefix
`)

	if len(history) > 0 {
		b.WriteString("\nCONVERSATION SO FAR:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(m.Role), m.Content)
		}
	}
	fmt.Fprintf(&b, "\nUSER: %s\n", message)
	return b.String()
}

func profileContext(p *store.Profile) string {
	if p == nil {
		return "No user profile available."
	}

	var parts []string
	if p.DisplayName != "" {
		parts = append(parts, fmt.Sprintf("Name: %s", p.DisplayName))
	}
	if p.Age > 0 {
		parts = append(parts, fmt.Sprintf("Age: %d years old", p.Age))
	}
	if p.Gender != "" {
		parts = append(parts, fmt.Sprintf("Gender: %s", p.Gender))
	}
	if p.HeightCm > 0 {
		parts = append(parts, fmt.Sprintf("Height: %g cm", p.HeightCm))
	}
	if p.WeightKg > 0 {
		parts = append(parts, fmt.Sprintf("Weight: %g kg", p.WeightKg))
	}
	if p.Goal != "" {
		parts = append(parts, fmt.Sprintf("Fitness Goal: %s", strings.ReplaceAll(p.Goal, "_", " ")))
	}
	if p.ActivityLevel != "" {
		parts = append(parts, fmt.Sprintf("Activity Level: %s", strings.ReplaceAll(p.ActivityLevel, "_", " ")))
	}
	if p.CalorieTarget > 0 {
		parts = append(parts, fmt.Sprintf("Daily Calorie Target: %d kcal", p.CalorieTarget))
	}
	if p.ProteinTarget > 0 {
		parts = append(parts, fmt.Sprintf("Daily Protein Target: %dg", p.ProteinTarget))
	}
	if p.CarbsTarget > 0 {
		parts = append(parts, fmt.Sprintf("Daily Carbs Target: %dg", p.CarbsTarget))
	}
	if p.FatTarget > 0 {
		parts = append(parts, fmt.Sprintf("Daily Fat Target: %dg", p.FatTarget))
	}

	if len(parts) == 0 {
		return "No detailed profile available."
	}
	return strings.Join(parts, "\n")
}
