package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsobczak/cookidoo-agent/internal/source"
)

// CondenseRecipe flattens a recipe record into the single denormalized string
// used both as embedding input and as retrievable context. It is a pure
// function of the record: identical input always yields identical output.
func CondenseRecipe(rec *source.RecipeDetails) string {
	var ingredients []string
	for _, group := range rec.IngredientGroups {
		for _, ing := range group.Ingredients {
			ingredients = append(ingredients, ing.Notation)
		}
	}

	var nutritions []string
	for _, rn := range rec.Nutritions {
		for _, n := range rn.Nutritions {
			nutritions = append(nutritions, fmt.Sprintf("%s %s %s", n.UnitType, formatFloat(n.Number), n.Type))
		}
	}

	var times []string
	for _, t := range rec.Times {
		times = append(times, fmt.Sprintf("%s %s", t.Type, formatFloat(t.Value)))
	}

	return fmt.Sprintf(
		"Category: %s. Title: %s. Ingredients: %s. Nutrition: %s. Total times: %s.",
		rec.Category,
		rec.Title,
		strings.Join(ingredients, ", "),
		strings.Join(nutritions, ", "),
		strings.Join(times, ", "),
	)
}

// formatFloat renders a number in its shortest decimal form (250, 0.5).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
