package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 5 * time.Second

// Client fetches recipe records from the catalog API.
//
// Records whose locale does not match the configured target locale are
// filtered out: RecipeDetails returns (nil, nil) for them, the same way a
// missing id yields no record. This is a filter, not a fault.
type Client struct {
	http         *http.Client
	baseURL      string
	language     string
	targetLocale string
}

// NewClient creates a catalog API client. language selects the localized
// recipe endpoint (e.g. "en-GB"); targetLocale filters the returned records.
func NewClient(baseURL, language, targetLocale string) *Client {
	return &Client{
		http:         &http.Client{Timeout: requestTimeout},
		baseURL:      strings.TrimRight(baseURL, "/"),
		language:     language,
		targetLocale: targetLocale,
	}
}

// RecipeDetails fetches and parses a single recipe by numeric id. It returns
// (nil, nil) when the record exists but is not in the target locale. Missing
// or malformed optional fields in the response default to zero values.
func (c *Client) RecipeDetails(ctx context.Context, id int) (*RecipeDetails, error) {
	url := fmt.Sprintf("%s/recipes/recipe/%s/r%d", c.baseURL, c.language, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: fetch recipe r%d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source: fetch recipe r%d: unexpected status %d", id, resp.StatusCode)
	}

	var raw wireRecipe
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("source: decode recipe r%d: %w", id, err)
	}

	if raw.Locale != c.targetLocale {
		return nil, nil
	}

	return raw.toRecipeDetails(), nil
}

// wire types mirror the catalog API response. encoding/json leaves absent
// fields at their zero values, which gives the silent-defaulting behaviour
// the record contract requires.

type wireRecipe struct {
	ID                    string                `json:"id"`
	Title                 string                `json:"title"`
	Categories            []wireCategory        `json:"categories"`
	Difficulty            string                `json:"difficulty"`
	Language              string                `json:"language"`
	Locale                string                `json:"locale"`
	NutritionGroups       []wireNutritionGroup  `json:"nutritionGroups"`
	PublicationDate       string                `json:"publicationDate"`
	IngredientGroups      []wireIngredientGroup `json:"recipeIngredientGroups"`
	StepGroups            []wireStepGroup       `json:"recipeStepGroups"`
	Utensils              []wireUtensil         `json:"recipeUtensils"`
	ServingSize           wireServingSize       `json:"servingSize"`
	TargetCountries       []string              `json:"targetCountries"`
	ThermomixVersions     []string              `json:"thermomixVersions"`
	Times                 []wireTime            `json:"times"`
	AdditionalInformation []wireAdditionalInfo  `json:"additionalInformation"`
}

type wireCategory struct {
	Title string `json:"title"`
}

type wireAdditionalInfo struct {
	Content string `json:"content"`
}

type wireNutritionGroup struct {
	RecipeNutritions []wireRecipeNutrition `json:"recipeNutritions"`
}

type wireRecipeNutrition struct {
	Nutritions   []wireNutrition `json:"nutritions"`
	Quantity     int             `json:"quantity"`
	UnitNotation string          `json:"unitNotation"`
}

type wireNutrition struct {
	Number   float64 `json:"number"`
	Type     string  `json:"type"`
	UnitType string  `json:"unittype"`
}

type wireIngredientGroup struct {
	Title       string           `json:"title"`
	Ingredients []wireIngredient `json:"recipeIngredients"`
}

type wireIngredient struct {
	Notation    string       `json:"ingredientNotation"`
	Optional    bool         `json:"optional"`
	Preparation string       `json:"preparation"`
	Quantity    wireQuantity `json:"quantity"`
	Unit        string       `json:"unitNotation"`
}

type wireStepGroup struct {
	Title string     `json:"title"`
	Steps []wireStep `json:"recipeSteps"`
}

type wireStep struct {
	Title         string `json:"title"`
	FormattedText string `json:"formattedText"`
}

type wireUtensil struct {
	Notation string `json:"utensilNotation"`
}

type wireServingSize struct {
	Quantity wireQuantity `json:"quantity"`
	Unit     string       `json:"unitNotation"`
}

type wireTime struct {
	Type     string       `json:"type"`
	Comment  string       `json:"comment"`
	Quantity wireQuantity `json:"quantity"`
}

type wireQuantity struct {
	Value float64 `json:"value"`
}

func (w *wireRecipe) toRecipeDetails() *RecipeDetails {
	rec := &RecipeDetails{
		ID:                w.ID,
		Title:             w.Title,
		Difficulty:        w.Difficulty,
		Language:          w.Language,
		Locale:            w.Locale,
		PublicationDate:   w.PublicationDate,
		TargetCountries:   w.TargetCountries,
		ThermomixVersions: w.ThermomixVersions,
		ServingSize: ServingSize{
			Quantity: w.ServingSize.Quantity.Value,
			Unit:     w.ServingSize.Unit,
		},
	}

	// The API reports a list of categories; the record keeps the first one.
	if len(w.Categories) > 0 {
		rec.Category = w.Categories[0].Title
	}

	for _, info := range w.AdditionalInformation {
		rec.AdditionalInformation = append(rec.AdditionalInformation, info.Content)
	}

	for _, group := range w.NutritionGroups {
		for _, rn := range group.RecipeNutritions {
			nutrition := RecipeNutrition{
				Quantity: rn.Quantity,
				Unit:     rn.UnitNotation,
			}
			for _, n := range rn.Nutritions {
				nutrition.Nutritions = append(nutrition.Nutritions, Nutrition{
					Number:   n.Number,
					Type:     n.Type,
					UnitType: n.UnitType,
				})
			}
			rec.Nutritions = append(rec.Nutritions, nutrition)
		}
	}

	for _, group := range w.IngredientGroups {
		ig := IngredientGroup{Title: group.Title}
		for _, ing := range group.Ingredients {
			ig.Ingredients = append(ig.Ingredients, Ingredient{
				Notation:    ing.Notation,
				Optional:    ing.Optional,
				Preparation: ing.Preparation,
				Quantity:    ing.Quantity.Value,
				Unit:        ing.Unit,
			})
		}
		rec.IngredientGroups = append(rec.IngredientGroups, ig)
	}

	for _, group := range w.StepGroups {
		sg := StepGroup{Title: group.Title}
		for _, step := range group.Steps {
			sg.Steps = append(sg.Steps, Step{
				Title:   strings.TrimSpace(step.Title),
				Content: strings.TrimSpace(step.FormattedText),
			})
		}
		rec.StepGroups = append(rec.StepGroups, sg)
	}

	for _, u := range w.Utensils {
		rec.Utensils = append(rec.Utensils, u.Notation)
	}

	for _, t := range w.Times {
		rec.Times = append(rec.Times, RecipeTime{
			Type:    t.Type,
			Comment: t.Comment,
			Value:   t.Quantity.Value,
		})
	}

	return rec
}
