package nutrition

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var goalAdjustments = map[string]float64{
	"lose_fat":             0.8,
	"gain_muscle":          1.1,
	"gain_weight":          1.15,
	"maintain":             1.0,
	"improve_energy":       1.0,
	"diet_transition":      1.0,
	"athletic_performance": 1.1,
}

// Fallback computes targets with the Mifflin-St Jeor equation adjusted for
// activity level and goal.
func Fallback(in Input) Targets {
	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age)
	if in.Gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[in.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers["moderate"]
	}
	tdee := bmr * multiplier

	adjustment, ok := goalAdjustments[in.Goal]
	if !ok {
		adjustment = 1.0
	}
	calories := int(tdee * adjustment)

	var protein, fat int
	switch in.Goal {
	case "gain_muscle", "athletic_performance":
		protein = int(in.WeightKg * 2.0)
		fat = int(float64(calories) * 0.25 / 9)
	case "lose_fat":
		protein = int(in.WeightKg * 1.8)
		fat = int(float64(calories) * 0.30 / 9)
	default:
		protein = int(in.WeightKg * 1.6)
		fat = int(float64(calories) * 0.30 / 9)
	}
	carbs := (calories - protein*4 - fat*9) / 4
	if carbs < 50 {
		carbs = 50
	}

	return Targets{
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		Fat:         fat,
		Explanation: "Calculated using Mifflin-St Jeor equation with adjustments for your goal and activity level.",
	}
}
