package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/freng35/simple-votings/internal/handlers"
	"github.com/freng35/simple-votings/internal/middleware"
	"github.com/freng35/simple-votings/internal/routes"
)

type App struct {
	engine *gin.Engine
	server *http.Server
	port   int
}

// NewApp sets up the gin engine and mounts the route groups.
func NewApp(
	port int,
	pollHandler *handlers.PollHandler,
	voteHandler *handlers.VoteHandler,
	engagementHandler *handlers.EngagementHandler,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	authMiddleware *middleware.AuthMiddleware,
) *App {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		routes.RegisterAuthRoutes(authGroup, authHandler)

		publicGroup := api.Group("/votings", authMiddleware.Optional())
		routes.RegisterPublicRoutes(publicGroup, pollHandler, voteHandler, profileHandler)

		privateGroup := api.Group("/votings", authMiddleware.Middleware())
		routes.RegisterPrivateRoutes(privateGroup, pollHandler, engagementHandler, profileHandler)
	}

	// Healthcheck
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	addr := fmt.Sprintf(":%d", port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	return &App{
		engine: r,
		server: httpServer,
		port:   port,
	}
}

// Run starts the HTTP server.
func (a *App) Run() error {
	return a.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (a *App) Stop(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}
