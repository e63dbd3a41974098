package routes

import (
	"talent-match/internal/ai"
	"talent-match/internal/config"
	"talent-match/internal/database"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/infrastructure/cache"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// Deps carries the shared infrastructure handed down to route groups.
type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	AI     ai.CompletionClient
	Logger *zap.Logger
}

type Registry struct {
	deps   Deps
	health *handler.HealthHandler
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:   deps,
		health: handler.NewHealthHandler(deps.DB),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.deps)
}
