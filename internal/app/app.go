package app

import (
	"context"
	"log/slog"

	httpapp "github.com/freng35/simple-votings/internal/app/http"
	"github.com/freng35/simple-votings/internal/config"
	"github.com/freng35/simple-votings/internal/handlers"
	"github.com/freng35/simple-votings/internal/middleware"
	"github.com/freng35/simple-votings/internal/repo/postgres"
	"github.com/freng35/simple-votings/internal/services"
)

type App struct {
	HTTPServer *httpapp.App
	Polls      *services.Polls
	Votes      *services.Votes
	Engagement *services.Engagement
	Auth       *services.Auth
	Profiles   *services.Profiles
}

func NewApp(log *slog.Logger, cfg *config.Config) *App {
	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		panic(err)
	}

	pollsService := services.NewPolls(log, storage, storage, storage, storage, storage, storage)
	votesService := services.NewVotes(log, storage, storage, storage)
	engagementService := services.NewEngagement(log, storage, storage, storage, storage, storage)
	authService := services.NewAuth(log, storage, storage, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	profilesService := services.NewProfiles(log, storage, storage, storage, storage, storage, storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.Secret)

	httpApp := httpapp.NewApp(
		cfg.HTTP.Port,
		handlers.NewPollHandler(pollsService),
		handlers.NewVoteHandler(votesService),
		handlers.NewEngagementHandler(engagementService),
		handlers.NewAuthHandler(authService),
		handlers.NewProfileHandler(profilesService),
		authMiddleware,
	)

	return &App{
		HTTPServer: httpApp,
		Polls:      pollsService,
		Votes:      votesService,
		Engagement: engagementService,
		Auth:       authService,
		Profiles:   profilesService,
	}
}

func (a *App) Stop(ctx context.Context) error {
	return a.HTTPServer.Stop(ctx)
}
