package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipeBody = `{
	"id": "r4001",
	"title": "Tomato soup",
	"categories": [{"title": "Soups"}, {"title": "Starters"}],
	"difficulty": "easy",
	"language": "pl",
	"locale": "pl",
	"publicationDate": "2020-01-15",
	"recipeIngredientGroups": [
		{
			"title": "Base",
			"recipeIngredients": [
				{"ingredientNotation": "tomatoes", "optional": false, "preparation": "diced", "quantity": {"value": 400}, "unitNotation": "g"},
				{"ingredientNotation": "cream", "optional": true, "quantity": {"value": 0.5}, "unitNotation": "cup"}
			]
		}
	],
	"recipeStepGroups": [
		{
			"title": "",
			"recipeSteps": [
				{"title": " Blend ", "formattedText": " Blend everything. "}
			]
		}
	],
	"nutritionGroups": [
		{
			"recipeNutritions": [
				{
					"quantity": 1,
					"unitNotation": "portion",
					"nutritions": [
						{"number": 250, "type": "calorie", "unittype": "kcal"}
					]
				}
			]
		}
	],
	"times": [
		{"type": "activeTime", "comment": "", "quantity": {"value": 600}},
		{"type": "totalTime", "comment": "incl. resting", "quantity": {"value": 1800}}
	],
	"servingSize": {"quantity": {"value": 4}, "unitNotation": "portions"},
	"recipeUtensils": [{"utensilNotation": "blender"}],
	"targetCountries": ["pl"],
	"thermomixVersions": ["TM6"],
	"additionalInformation": [{"content": "Serve hot."}]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RecipeDetails(t *testing.T) {
	t.Run("should parse a full record", func(t *testing.T) {
		var gotPath string
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Write([]byte(recipeBody))
		})

		client := NewClient(srv.URL, "en-GB", "pl")
		rec, err := client.RecipeDetails(context.Background(), 4001)
		require.NoError(t, err)
		require.NotNil(t, rec)

		assert.Equal(t, "/recipes/recipe/en-GB/r4001", gotPath)
		assert.Equal(t, "r4001", rec.ID)
		assert.Equal(t, "Tomato soup", rec.Title)
		assert.Equal(t, "Soups", rec.Category, "first category wins")
		assert.Equal(t, "easy", rec.Difficulty)
		assert.Equal(t, "pl", rec.Locale)
		assert.Equal(t, "2020-01-15", rec.PublicationDate)

		require.Len(t, rec.IngredientGroups, 1)
		require.Len(t, rec.IngredientGroups[0].Ingredients, 2)
		assert.Equal(t, "tomatoes", rec.IngredientGroups[0].Ingredients[0].Notation)
		assert.Equal(t, 400.0, rec.IngredientGroups[0].Ingredients[0].Quantity)
		assert.True(t, rec.IngredientGroups[0].Ingredients[1].Optional)

		require.Len(t, rec.StepGroups, 1)
		require.Len(t, rec.StepGroups[0].Steps, 1)
		assert.Equal(t, "Blend", rec.StepGroups[0].Steps[0].Title)
		assert.Equal(t, "Blend everything.", rec.StepGroups[0].Steps[0].Content)

		require.Len(t, rec.Nutritions, 1)
		assert.Equal(t, "portion", rec.Nutritions[0].Unit)
		require.Len(t, rec.Nutritions[0].Nutritions, 1)
		assert.Equal(t, 250.0, rec.Nutritions[0].Nutritions[0].Number)
		assert.Equal(t, "kcal", rec.Nutritions[0].Nutritions[0].UnitType)

		require.Len(t, rec.Times, 2)
		assert.Equal(t, "totalTime", rec.Times[1].Type)
		assert.Equal(t, 1800.0, rec.Times[1].Value)

		assert.Equal(t, 4.0, rec.ServingSize.Quantity)
		assert.Equal(t, "portions", rec.ServingSize.Unit)
		assert.Equal(t, []string{"blender"}, rec.Utensils)
		assert.Equal(t, []string{"TM6"}, rec.ThermomixVersions)
		assert.Equal(t, []string{"Serve hot."}, rec.AdditionalInformation)
	})

	t.Run("should filter records in another locale", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id": "r1", "title": "Scones", "locale": "en"}`))
		})

		client := NewClient(srv.URL, "en-GB", "pl")
		rec, err := client.RecipeDetails(context.Background(), 1)
		require.NoError(t, err)
		assert.Nil(t, rec, "locale mismatch is a filter, not a fault")
	})

	t.Run("should fail on non-200 responses", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		client := NewClient(srv.URL, "en-GB", "pl")
		rec, err := client.RecipeDetails(context.Background(), 99)
		assert.Error(t, err)
		assert.Nil(t, rec)
	})

	t.Run("should default every missing field", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"locale": "pl"}`))
		})

		client := NewClient(srv.URL, "en-GB", "pl")
		rec, err := client.RecipeDetails(context.Background(), 2)
		require.NoError(t, err)
		require.NotNil(t, rec)

		assert.Empty(t, rec.ID)
		assert.Empty(t, rec.Title)
		assert.Empty(t, rec.Category)
		assert.Empty(t, rec.IngredientGroups)
		assert.Empty(t, rec.StepGroups)
		assert.Empty(t, rec.Nutritions)
		assert.Empty(t, rec.Times)
		assert.Zero(t, rec.ServingSize.Quantity)
	})

	t.Run("should fail on malformed JSON", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"locale":`))
		})

		client := NewClient(srv.URL, "en-GB", "pl")
		_, err := client.RecipeDetails(context.Background(), 3)
		assert.Error(t, err)
	})
}
