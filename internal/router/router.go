package router

import (
	"time"

	"github.com/benbeisheim/starchess-backend/internal/config"
	"github.com/benbeisheim/starchess-backend/internal/controller"
	"github.com/benbeisheim/starchess-backend/internal/middleware"
	"github.com/benbeisheim/starchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

// New builds the relay app: room REST routes under /api and the room
// websocket under /ws.
func New(cfg config.ServerConfig, relayService *service.RelayService) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).
			Msg("request")
		return err
	})

	roomController := controller.NewRoomController(relayService)
	wsController := controller.NewWebSocketController(relayService)

	app.Get("/ws/rooms/:roomId",
		middleware.EnsurePlayerID(),
		middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}),
	)

	api := app.Group("/api", middleware.EnsurePlayerID())
	rooms := api.Group("/rooms")
	rooms.Post("/", roomController.CreateRoom)
	rooms.Get("/:roomId", roomController.GetRoom)
	rooms.Get("/:roomId/history", roomController.GetHistory)

	return app
}
