package controller

import (
	"context"

	"github.com/benbeisheim/starchess-backend/internal/service"
	"github.com/benbeisheim/starchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

type WebSocketController struct {
	relayService *service.RelayService
}

func NewWebSocketController(relayService *service.RelayService) *WebSocketController {
	return &WebSocketController{
		relayService: relayService,
	}
}

// HandleConnection joins the peer to its room and relays every text frame it
// sends, unmodified, until the connection drops.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	ctx := context.Background()
	roomID := c.Params("roomId")
	playerID, _ := c.Locals("playerID").(string)
	logger := log.With().Str("room", roomID).Str("player", playerID).Logger()

	if err := wsc.relayService.RegisterConnection(ctx, roomID, playerID, c); err != nil {
		logger.Warn().Err(err).Msg("failed to register connection")
		c.WriteMessage(websocket.TextMessage, ws.ErrorMessage(err.Error()).Encode())
		c.Close()
		return
	}
	defer wsc.relayService.UnregisterConnection(roomID, playerID, c)

	for {
		messageType, frame, err := c.ReadMessage()
		if err != nil {
			logger.Debug().Err(err).Msg("read loop ended")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := wsc.relayService.Relay(ctx, roomID, frame); err != nil {
			logger.Error().Err(err).Msg("relay failed")
		}
	}
}
