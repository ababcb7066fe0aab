package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/nihalsingh571/internrecom/internal/delivery/http/handler"
	"github.com/nihalsingh571/internrecom/internal/delivery/http/middleware"
	"github.com/nihalsingh571/internrecom/internal/delivery/http/routes"
	"github.com/nihalsingh571/internrecom/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
	Hub   *ws.Hub
}

func Bootstrap(c *Container, logger *log.Logger) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	f.Use(middleware.NewErrorMiddleware().Middleware())
	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())

	health := handler.NewHealthHandler(c.DB, c.Cache)
	routes.NewRegistry(c.Config, c.DB, c.Cache, health).Register(f)

	hub := ws.NewHub(logger)
	go hub.Run()
	ws.SetDefaultHub(hub)
	f.Get("/ws", ws.NewHandler(hub, logger).HandleEventsWS)

	return &App{Fiber: f, Hub: hub}
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
