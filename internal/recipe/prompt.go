package recipe

import "fmt"

const recipeJSONShape = `{
    "title": "Name of the dish",
    "description": "Brief description of the dish",
    "prepTime": 10,
    "cookTime": 20,
    "servings": 4,
    "difficulty": "Easy/Medium/Hard",
    "ingredients": [
        {"name": "ingredient name", "amount": "quantity with unit"}
    ],
    "steps": [
        "Step 1 instruction",
        "Step 2 instruction"
    ],
    "equipment": ["pan", "spatula"],
    "tips": ["cooking tip 1", "tip 2"],
    "nutritionPerServing": {
        "calories": 300,
        "protein": 25,
        "carbs": 30,
        "fat": 12
    },
    "tags": ["high-protein", "quick", "meal-prep"]
}`

const promptFooter = "Be specific about ingredients and measurements. Estimate nutrition based on visible ingredients."

// VideoPrompt is the instruction sent alongside a whole uploaded video.
func VideoPrompt() string {
	return "Analyze this cooking video and extract a detailed recipe. Return the response in this exact JSON format:\n\n" +
		recipeJSONShape + "\n\n" + promptFooter
}

// FramesPrompt is the instruction sent alongside sampled still frames.
func FramesPrompt(frameCount int) string {
	return fmt.Sprintf("Analyze these %d frames from a cooking video and extract a detailed recipe. Return the response in this exact JSON format:\n\n", frameCount) +
		recipeJSONShape + "\n\n" + promptFooter
}
