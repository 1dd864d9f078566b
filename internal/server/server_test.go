package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsobczak/cookidoo-agent/config"
	"github.com/jsobczak/cookidoo-agent/internal/service"
)

type noopRecipeService struct{}

func (noopRecipeService) QueryRecipes(ctx context.Context, query string) (string, error) {
	return "answer", nil
}

func (noopRecipeService) StartIngestion(ctx context.Context) *service.IngestJob {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort: "8000",
		CORSOrigin: "http://localhost:3000",
	}
}

func TestServer_Routes(t *testing.T) {
	srv := New(testConfig(), noopRecipeService{})

	t.Run("should serve the root banner", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Cookidoo Agent API")
	})

	t.Run("should answer preflight requests from the configured origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/recipes/query", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("should not allow other origins", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/recipes/query", nil)
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		srv.router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
