// Package foodscan identifies food items and estimates nutrition from a
// meal photo.
package foodscan

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nutriai/nutriai-server/internal/ai"
)

const analysisPrompt = `Analyze this food image and provide detailed nutritional information.

You must respond with ONLY a valid JSON object (no markdown, no extra text) in this exact format:
{
    "mealName": "Name of the meal/dish",
    "confidence": 0.85,
    "items": [
        {
            "name": "Food item name",
            "grams": 100,
            "calories": 200,
            "protein": 20,
            "carbs": 25,
            "fat": 8,
            "confidence": 0.9
        }
    ],
    "totals": {
        "calories": 500,
        "protein": 40,
        "carbs": 50,
        "fat": 15
    }
}

Guidelines:
- Identify each distinct food item visible in the image
- Estimate realistic portion sizes in grams
- Provide accurate nutritional values per item
- Calculate totals as the sum of all items
- Confidence should be 0-1 based on how clear the food is
- Be specific with food names (e.g., "grilled chicken breast" not just "chicken")
- If you can't identify the food, still provide your best estimate with lower confidence

Respond with ONLY the JSON object, no other text.`

var ErrUnparseableReply = errors.New("food analysis reply was not valid JSON")

type Item struct {
	Name       string  `json:"name"`
	Grams      float64 `json:"grams"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Confidence float64 `json:"confidence"`
}

type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type Analysis struct {
	MealName   string  `json:"mealName"`
	Confidence float64 `json:"confidence"`
	Items      []Item  `json:"items"`
	Totals     Totals  `json:"totals"`
}

type Analyzer struct {
	aiClient ai.Client
	logger   *slog.Logger
}

func NewAnalyzer(aiClient ai.Client, logger *slog.Logger) *Analyzer {
	return &Analyzer{aiClient: aiClient, logger: logger}
}

// Analyze sends the image to the AI backend and decodes the structured
// reply. Unlike recipe parsing this is strict: a reply that is not the
// requested JSON shape is an error.
func (a *Analyzer) Analyze(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reply, err := a.aiClient.GenerateFromImage(ctx, analysisPrompt, image, mimeType)
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(reply)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("unparseable food analysis reply", "reply_prefix", truncate(reply, 200))
		}
		return nil, err
	}
	return analysis, nil
}

// DecodeImagePayload accepts either a raw base64 string or a data URL and
// returns the image bytes plus the MIME type declared in the header.
func DecodeImagePayload(payload string) ([]byte, string, error) {
	mimeType := "image/jpeg"
	if header, rest, ok := strings.Cut(payload, ","); ok {
		payload = rest
		switch {
		case strings.Contains(header, "png"):
			mimeType = "image/png"
		case strings.Contains(header, "webp"):
			mimeType = "image/webp"
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image payload: %w", err)
	}
	return data, mimeType, nil
}

func parseAnalysis(reply string) (*Analysis, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(line, "```") {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.Join(kept, "\n")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, ErrUnparseableReply
	}
	if analysis.MealName == "" || analysis.Items == nil {
		return nil, ErrUnparseableReply
	}
	return &analysis, nil
}

// truncate cuts s to at most n characters, never splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
