package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tour0001/backend/internal/directory"
	"github.com/tour0001/backend/internal/guard"
	"github.com/tour0001/backend/internal/handler"
	"github.com/tour0001/backend/internal/repository"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	DB       repository.DBTX
	Players  repository.PlayerRepository
	Levels   repository.LevelRepository
	Progress repository.ProgressRepository
	Ping     handler.PingFunc
	Logger   *slog.Logger

	AllowedOrigins []string

	RateLimitWindow       time.Duration
	RateLimitMax          int
	StrictRateLimitWindow time.Duration
	StrictRateLimitMax    int

	StartedAt time.Time
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	dir := directory.New(deps.DB, deps.Players, deps.Levels, deps.Progress, deps.Logger)

	playerHandler := handler.NewPlayerHandler(dir)
	levelHandler := handler.NewLevelHandler(dir)
	progressHandler := handler.NewProgressHandler(dir)

	generalLimiter := guard.NewRateLimiter(deps.RateLimitMax, deps.RateLimitWindow)
	strictLimiter := guard.NewRateLimiter(deps.StrictRateLimitMax, deps.StrictRateLimitWindow)

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(deps.Logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(deps.Logger))
	r.Use(handler.CORS(deps.AllowedOrigins))
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))
	r.Use(handler.JSONContentType)
	r.Use(handler.RateLimit(generalLimiter, "too many requests, try again later"))

	r.NotFound(handler.NotFoundHandler())

	r.Get("/", handler.IndexHandler())
	r.Get("/health", handler.HealthHandler(deps.Ping, deps.StartedAt))

	strict := handler.RateLimit(strictLimiter, "too many modification attempts, slow down")

	r.Route("/api/joueurs", func(r chi.Router) {
		r.With(strict).Post("/", playerHandler.CreateOrGet)
		r.Get("/leaderboard/top", playerHandler.Leaderboard)
		r.Get("/{externalID}", playerHandler.Get)
		r.With(strict).Put("/{externalID}/score", playerHandler.UpdateScore)
		r.With(strict).Post("/{externalID}/progression", progressHandler.Record)
		r.Get("/{externalID}/progression", progressHandler.History)
	})

	r.Route("/api/etages", func(r chi.Router) {
		r.Get("/", levelHandler.List)
		r.Get("/{id}", levelHandler.Get)
		r.Get("/{id}/top", levelHandler.TopScores)
	})

	return r
}
