// Package nutrition computes daily calorie and macro targets, preferring
// the AI backend and falling back to a Mifflin-St Jeor calculation when the
// model is unavailable or returns garbage.
package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nutriai/nutriai-server/internal/ai"
)

type Input struct {
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	HeightCm      float64  `json:"height"`
	WeightKg      float64  `json:"weight"`
	Goal          string   `json:"goal"`
	ActivityLevel string   `json:"activity_level"`
	Allergies     []string `json:"allergies,omitempty"`
	Conditions    []string `json:"health_conditions,omitempty"`
	Preferences   []string `json:"dietary_preferences,omitempty"`
}

type Targets struct {
	Calories    int    `json:"daily_calorie_target"`
	Protein     int    `json:"daily_protein_target"`
	Carbs       int    `json:"daily_carbs_target"`
	Fat         int    `json:"daily_fat_target"`
	Explanation string `json:"explanation"`
}

// Estimator asks the AI backend for targets and verifies the reply before
// trusting it.
type Estimator struct {
	aiClient ai.Client
	logger   *slog.Logger
}

func NewEstimator(aiClient ai.Client, logger *slog.Logger) *Estimator {
	return &Estimator{aiClient: aiClient, logger: logger}
}

// Estimate never fails: any AI error or malformed reply degrades to the
// formula-based fallback.
func (e *Estimator) Estimate(ctx context.Context, in Input) (Targets, bool) {
	reply, err := e.aiClient.GenerateText(ctx, buildPrompt(in))
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("nutrition estimate falling back to formula", "error", err)
		}
		return Fallback(in), false
	}

	targets, err := parseTargets(reply)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("unusable nutrition reply, falling back to formula", "error", err)
		}
		return Fallback(in), false
	}
	return targets, true
}

func buildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are a nutrition expert AI. Based on the following user profile, calculate their recommended daily nutritional intake.\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Age: %d years old\n", in.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", in.Gender)
	fmt.Fprintf(&b, "- Height: %g cm\n", in.HeightCm)
	fmt.Fprintf(&b, "- Weight: %g kg\n", in.WeightKg)
	fmt.Fprintf(&b, "- Fitness Goal: %s\n", strings.ReplaceAll(in.Goal, "_", " "))
	fmt.Fprintf(&b, "- Activity Level: %s\n", strings.ReplaceAll(in.ActivityLevel, "_", " "))
	fmt.Fprintf(&b, "- Allergies: %s\n", listOrNone(in.Allergies))
	fmt.Fprintf(&b, "- Health Conditions: %s\n", listOrNone(in.Conditions))
	fmt.Fprintf(&b, "- Dietary Preferences: %s\n", listOrNone(in.Preferences))
	b.WriteString(`
Calculate and provide ONLY a JSON response with these exact fields (no markdown, no explanation):
{
    "daily_calorie_target": <integer>,
    "daily_protein_target": <integer in grams>,
    "daily_carbs_target": <integer in grams>,
    "daily_fat_target": <integer in grams>,
    "explanation": "<brief 1-2 sentence explanation of the calculation>"
}

Consider the user's goal when calculating:
- For muscle gain: higher protein (1.8-2.2g/kg), slight calorie surplus
- For fat loss: moderate protein (1.6-2.0g/kg), calorie deficit
- For maintenance: balanced macros, maintenance calories
- For weight gain: calorie surplus with balanced macros
- For athletic performance: higher carbs and protein
- Adjust for any health conditions mentioned

Use the Mifflin-St Jeor equation as a base for BMR calculation, then adjust for activity level and goals.`)
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

// parseTargets strips an optional markdown fence and decodes the reply.
func parseTargets(reply string) (Targets, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
		text = strings.TrimPrefix(text, "json")
		text = strings.TrimSpace(text)
	}

	var t Targets
	if err := json.Unmarshal([]byte(text), &t); err != nil {
		return Targets{}, fmt.Errorf("decoding nutrition reply: %w", err)
	}
	if t.Calories <= 0 || t.Protein <= 0 || t.Carbs <= 0 || t.Fat <= 0 {
		return Targets{}, fmt.Errorf("nutrition reply missing required targets")
	}
	return t, nil
}
