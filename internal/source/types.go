package source

// RecipeDetails is the structured form of one recipe record from the catalog
// API. Every field is optional on the wire and defaults to its zero value.
type RecipeDetails struct {
	ID                    string
	Title                 string
	Category              string
	Difficulty            string
	Language              string
	Locale                string
	IngredientGroups      []IngredientGroup
	StepGroups            []StepGroup
	Nutritions            []RecipeNutrition
	Times                 []RecipeTime
	ServingSize           ServingSize
	Utensils              []string
	TargetCountries       []string
	ThermomixVersions     []string
	AdditionalInformation []string
	PublicationDate       string
}

// IngredientGroup is a titled, ordered group of ingredients.
type IngredientGroup struct {
	Title       string
	Ingredients []Ingredient
}

// Ingredient is a single ingredient line within a group.
type Ingredient struct {
	Notation    string
	Optional    bool
	Preparation string
	Quantity    float64
	Unit        string
}

// StepGroup is a titled, ordered group of preparation steps.
type StepGroup struct {
	Title string
	Steps []Step
}

// Step is one preparation step with an optional short title.
type Step struct {
	Title   string
	Content string
}

// RecipeNutrition is one nutrition entry (per quantity/unit) with its facts.
type RecipeNutrition struct {
	Quantity   int
	Unit       string
	Nutritions []Nutrition
}

// Nutrition is one nutrition fact, e.g. {250, "calorie", "kcal"}.
type Nutrition struct {
	Number   float64
	Type     string
	UnitType string
}

// RecipeTime is one timing entry, e.g. total or active time in seconds.
type RecipeTime struct {
	Type    string
	Comment string
	Value   float64
}

// ServingSize is the yield of a recipe.
type ServingSize struct {
	Quantity float64
	Unit     string
}
