// Package recipe defines the canonical recipe record extracted from
// cooking videos and the parser that normalizes AI model output into it.
package recipe

const (
	DefaultTitle      = "Recipe from Video"
	DefaultPrepTime   = 15
	DefaultCookTime   = 30
	DefaultServings   = 4
	DefaultDifficulty = "Medium"
)

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Draft is the fully-populated recipe record. Every field is present after
// parsing; absent values are filled from documented defaults.
type Draft struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PrepTime    int          `json:"prepTime"`
	CookTime    int          `json:"cookTime"`
	Servings    int          `json:"servings"`
	Difficulty  string       `json:"difficulty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Equipment   []string     `json:"equipment"`
	Tips        []string     `json:"tips"`
	Nutrition   Nutrition    `json:"nutritionPerServing"`
	Tags        []string     `json:"tags"`
	RawResponse string       `json:"rawResponse,omitempty"`
}

// partialDraft distinguishes absent fields from zero values so that an
// explicit 0 or empty list survives the default merge.
type partialDraft struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	PrepTime    *int         `json:"prepTime"`
	CookTime    *int         `json:"cookTime"`
	Servings    *int         `json:"servings"`
	Difficulty  *string      `json:"difficulty"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Equipment   []string     `json:"equipment"`
	Tips        []string     `json:"tips"`
	Nutrition   *Nutrition   `json:"nutritionPerServing"`
	Tags        []string     `json:"tags"`
}

// defaults returns a Draft with every field at its documented default.
func defaults() Draft {
	return Draft{
		Title:       DefaultTitle,
		Description: "",
		PrepTime:    DefaultPrepTime,
		CookTime:    DefaultCookTime,
		Servings:    DefaultServings,
		Difficulty:  DefaultDifficulty,
		Ingredients: []Ingredient{},
		Steps:       []string{},
		Equipment:   []string{},
		Tips:        []string{},
		Tags:        []string{},
	}
}

// merge fills every absent field of the parsed partial from defaults.
func merge(p partialDraft) Draft {
	d := defaults()
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.PrepTime != nil {
		d.PrepTime = *p.PrepTime
	}
	if p.CookTime != nil {
		d.CookTime = *p.CookTime
	}
	if p.Servings != nil {
		d.Servings = *p.Servings
	}
	if p.Difficulty != nil {
		d.Difficulty = *p.Difficulty
	}
	if p.Ingredients != nil {
		d.Ingredients = p.Ingredients
	}
	if p.Steps != nil {
		d.Steps = p.Steps
	}
	if p.Equipment != nil {
		d.Equipment = p.Equipment
	}
	if p.Tips != nil {
		d.Tips = p.Tips
	}
	if p.Nutrition != nil {
		d.Nutrition = *p.Nutrition
	}
	if p.Tags != nil {
		d.Tags = p.Tags
	}
	return d
}
