package nutrition

import (
	"context"
	"strings"
	"testing"

	"github.com/nutriai/nutriai-server/internal/ai"
)

func sampleInput() Input {
	return Input{
		Age: 30, Gender: "male", HeightCm: 180, WeightKg: 80,
		Goal: "maintain", ActivityLevel: "moderate",
	}
}

func TestFallback_MaleMaintain(t *testing.T) {
	got := Fallback(sampleInput())

	// BMR = 10*80 + 6.25*180 - 5*30 + 5 = 1780; TDEE = 1780*1.55 = 2759
	if got.Calories != 2759 {
		t.Errorf("Calories = %d, want 2759", got.Calories)
	}
	if got.Protein != 128 { // 80 * 1.6
		t.Errorf("Protein = %d, want 128", got.Protein)
	}
	if got.Fat != 91 { // 2759 * 0.30 / 9
		t.Errorf("Fat = %d, want 91", got.Fat)
	}
	if got.Carbs != (2759-128*4-91*9)/4 {
		t.Errorf("Carbs = %d", got.Carbs)
	}
}

func TestFallback_FemaleLoseFat(t *testing.T) {
	in := Input{
		Age: 25, Gender: "female", HeightCm: 165, WeightKg: 60,
		Goal: "lose_fat", ActivityLevel: "light",
	}
	got := Fallback(in)

	// BMR = 10*60 + 6.25*165 - 5*25 - 161 = 1345.25
	// TDEE = 1345.25 * 1.375 = 1849.7; calories = 1849.7 * 0.8 = 1479
	if got.Calories != 1479 {
		t.Errorf("Calories = %d, want 1479", got.Calories)
	}
	if got.Protein != 108 { // 60 * 1.8
		t.Errorf("Protein = %d, want 108", got.Protein)
	}
}

func TestFallback_GainMuscleProtein(t *testing.T) {
	in := sampleInput()
	in.Goal = "gain_muscle"
	got := Fallback(in)

	if got.Protein != 160 { // 80 * 2.0
		t.Errorf("Protein = %d, want 160", got.Protein)
	}
}

func TestFallback_CarbsFloor(t *testing.T) {
	in := Input{
		Age: 80, Gender: "female", HeightCm: 140, WeightKg: 40,
		Goal: "lose_fat", ActivityLevel: "sedentary",
	}
	got := Fallback(in)

	if got.Carbs < 50 {
		t.Errorf("Carbs = %d, want >= 50", got.Carbs)
	}
}

func TestFallback_UnknownActivityDefaultsToModerate(t *testing.T) {
	in := sampleInput()
	in.ActivityLevel = "couch"
	if got, want := Fallback(in).Calories, Fallback(sampleInput()).Calories; got != want {
		t.Errorf("Calories = %d, want %d (moderate default)", got, want)
	}
}

func TestEstimate_UsesAIReply(t *testing.T) {
	stub := ai.NewStubClient(nil)
	stub.TextReply = `{"daily_calorie_target": 2500, "daily_protein_target": 150,
		"daily_carbs_target": 280, "daily_fat_target": 80, "explanation": "Based on your TDEE."}`
	e := NewEstimator(stub, nil)

	targets, fromAI := e.Estimate(context.Background(), sampleInput())
	if !fromAI {
		t.Fatal("fromAI = false, want true")
	}
	if targets.Calories != 2500 || targets.Protein != 150 {
		t.Errorf("targets = %+v", targets)
	}
}

func TestEstimate_StripsMarkdownFence(t *testing.T) {
	stub := ai.NewStubClient(nil)
	stub.TextReply = "```json\n{\"daily_calorie_target\": 2100, \"daily_protein_target\": 120, \"daily_carbs_target\": 200, \"daily_fat_target\": 70, \"explanation\": \"ok\"}\n```"
	e := NewEstimator(stub, nil)

	targets, fromAI := e.Estimate(context.Background(), sampleInput())
	if !fromAI {
		t.Fatal("fromAI = false, want true")
	}
	if targets.Calories != 2100 {
		t.Errorf("Calories = %d, want 2100", targets.Calories)
	}
}

func TestEstimate_FallsBackOnAIError(t *testing.T) {
	stub := ai.NewStubClient(nil)
	stub.Err = ai.WrapError(429, "quota")
	e := NewEstimator(stub, nil)

	targets, fromAI := e.Estimate(context.Background(), sampleInput())
	if fromAI {
		t.Fatal("fromAI = true, want false")
	}
	if targets.Calories != Fallback(sampleInput()).Calories {
		t.Errorf("targets = %+v, want fallback values", targets)
	}
}

func TestEstimate_FallsBackOnGarbageReply(t *testing.T) {
	stub := ai.NewStubClient(nil)
	stub.TextReply = "I recommend eating more vegetables."
	e := NewEstimator(stub, nil)

	_, fromAI := e.Estimate(context.Background(), sampleInput())
	if fromAI {
		t.Fatal("fromAI = true for unparseable reply")
	}
}

func TestBuildPrompt_IncludesProfile(t *testing.T) {
	in := sampleInput()
	in.Allergies = []string{"peanuts"}
	p := buildPrompt(in)

	for _, want := range []string{"Age: 30", "Height: 180 cm", "peanuts", "Mifflin-St Jeor"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
