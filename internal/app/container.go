package app

import (
	"context"
	"log"
	"time"

	"github.com/nihalsingh571/internrecom/internal/config"
	"github.com/nihalsingh571/internrecom/internal/database"
	dbpostgres "github.com/nihalsingh571/internrecom/internal/database/postgres"
	"github.com/nihalsingh571/internrecom/internal/infrastructure/cache"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  cache.NewRedis(logger),
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
