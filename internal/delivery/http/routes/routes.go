package routes

import (
	"github.com/nihalsingh571/internrecom/internal/config"
	"github.com/nihalsingh571/internrecom/internal/database"
	"github.com/nihalsingh571/internrecom/internal/delivery/http/handler"
	v1 "github.com/nihalsingh571/internrecom/internal/delivery/http/routes/v1"
	"github.com/nihalsingh571/internrecom/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg    config.Config
	db     database.DB
	cache  usecase.Cache
	health *handler.HealthHandler
}

func NewRegistry(cfg config.Config, db database.DB, cache usecase.Cache, health *handler.HealthHandler) *Registry {
	return &Registry{cfg: cfg, db: db, cache: cache, health: health}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	if r.health != nil {
		r.health.RegisterRoutes(app)
	}

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.cfg, r.db, r.cache)
}
