package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database/migration"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	registerGlobalMiddleware(f, c)

	registry := routes.NewRegistry(routes.Deps{
		Config: c.Config,
		DB:     c.DB,
		Cache:  c.Cache,
		AI:     c.AI,
		Logger: c.Logger,
	})
	registry.Register(f)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	runner := migration.Runner{Dir: "migrations"}
	if err := runner.Run(migCtx, c.DB.SQLDB()); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
