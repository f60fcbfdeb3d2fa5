package controller

import (
	"errors"

	"github.com/benbeisheim/starchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type RoomController struct {
	relayService *service.RelayService
}

func NewRoomController(relayService *service.RelayService) *RoomController {
	return &RoomController{relayService: relayService}
}

func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	roomID := rc.relayService.CreateRoom()
	log.Debug().Str("room", roomID).Interface("player", c.Locals("playerID")).Msg("room requested")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Room created",
		"room_id": roomID,
	})
}

func (rc *RoomController) GetRoom(c *fiber.Ctx) error {
	info, err := rc.relayService.GetRoom(c.Context(), c.Params("roomId"))
	if err != nil {
		return roomError(c, err, "Failed to fetch room")
	}
	return c.JSON(info)
}

func (rc *RoomController) GetHistory(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	history, err := rc.relayService.GetHistory(c.Context(), roomID)
	if err != nil {
		return roomError(c, err, "Failed to fetch history")
	}
	return c.JSON(fiber.Map{
		"room_id": roomID,
		"frames":  history,
	})
}

func roomError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, service.ErrRoomNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg(fallback)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}
