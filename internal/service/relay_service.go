package service

import (
	"context"
	"fmt"
)

type RelayService struct {
	roomManager *RoomManager
}

func NewRelayService(roomManager *RoomManager) *RelayService {
	return &RelayService{
		roomManager: roomManager,
	}
}

func (rs *RelayService) CreateRoom() string {
	return rs.roomManager.CreateRoom()
}

func (rs *RelayService) GetRoom(ctx context.Context, roomID string) (RoomInfo, error) {
	return rs.roomManager.RoomInfo(ctx, roomID)
}

func (rs *RelayService) GetHistory(ctx context.Context, roomID string) ([]string, error) {
	frames, err := rs.roomManager.History(ctx, roomID)
	if err != nil {
		return nil, err
	}
	history := make([]string, len(frames))
	for i, frame := range frames {
		history[i] = string(frame)
	}
	return history, nil
}

func (rs *RelayService) RegisterConnection(ctx context.Context, roomID, playerID string, conn Conn) error {
	if err := rs.roomManager.Join(ctx, roomID, playerID, conn); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}
	return nil
}

func (rs *RelayService) UnregisterConnection(roomID, playerID string, conn Conn) {
	rs.roomManager.Leave(roomID, playerID, conn)
}

func (rs *RelayService) Relay(ctx context.Context, roomID string, frame []byte) error {
	return rs.roomManager.Broadcast(ctx, roomID, frame)
}
