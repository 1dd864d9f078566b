package server

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsobczak/cookidoo-agent/config"
	"github.com/jsobczak/cookidoo-agent/internal/api"
	"github.com/jsobczak/cookidoo-agent/internal/middleware"
	"github.com/jsobczak/cookidoo-agent/internal/service"
)

// Server represents the HTTP server.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a server with all routes registered.
func New(cfg *config.Config, recipes service.IRecipeService) *Server {
	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigin))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.MessageResponse{
			Message: "Cookidoo Agent API. Use endpoints /recipes/load-db or /recipes/query.",
		})
	})

	recipeHandler := api.NewRecipeHandler(recipes)
	recipeHandler.RegisterRoutes(&router.RouterGroup)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler: router,
		},
	}
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
