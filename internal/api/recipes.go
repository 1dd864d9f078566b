package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsobczak/cookidoo-agent/internal/service"
)

// RecipeHandler exposes the ingestion and query operations over HTTP.
type RecipeHandler struct {
	recipes service.IRecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RegisterRoutes registers the recipe routes on the given group.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.POST("/load-db", h.LoadDatabase)
		recipes.POST("/query", h.Query)
	}
}

// LoadDatabase starts the vector database rebuild in the background and
// responds immediately; it does not wait for the job to finish.
func (h *RecipeHandler) LoadDatabase(c *gin.Context) {
	// The job must outlive this request, so it runs on a fresh context
	// rather than the request's.
	h.recipes.StartIngestion(context.Background())

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Database initial load started in background.",
	})
}

// Query answers a single natural-language recipe query.
func (h *RecipeHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.recipes.QueryRecipes(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, QueryResponse{Answer: answer})
}
