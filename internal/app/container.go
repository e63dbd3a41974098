package app

import (
	"context"
	"time"

	"talent-match/internal/ai"
	"talent-match/internal/ai/gemini"
	"talent-match/internal/config"
	"talent-match/internal/database"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/pkg/logger"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	AI     ai.CompletionClient
	Logger *zap.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	log, err := logger.New(cfg.App.Environment, cfg.App.LogDebug)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redis := cache.NewRedis(cfg.Redis, log)

	generator, err := gemini.NewGenerator(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	client := gemini.NewClient(generator, log, 0)

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  redis,
		AI:     client,
		Logger: log,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
