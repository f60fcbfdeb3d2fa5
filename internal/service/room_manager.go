// service/room_manager.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbeisheim/starchess-backend/internal/store"
	"github.com/benbeisheim/starchess-backend/internal/ws"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TextMessage matches the websocket text frame opcode.
const TextMessage = 1

var ErrRoomNotFound = errors.New("room not found")

// Conn is the part of a websocket connection the relay writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Peer struct {
	ID       string
	Conn     Conn
	JoinedAt time.Time
}

type Room struct {
	ID        string
	CreatedAt time.Time
	mu        sync.Mutex
	peers     map[string]*Peer
}

type RoomInfo struct {
	ID        string    `json:"id"`
	Peers     []string  `json:"peers"`
	Frames    int       `json:"frames"`
	CreatedAt time.Time `json:"createdAt"`
}

type RoomManager struct {
	rooms   map[string]*Room
	archive store.Archive
	mu      sync.RWMutex
}

func NewRoomManager(archive store.Archive) *RoomManager {
	return &RoomManager{
		rooms:   make(map[string]*Room),
		archive: archive,
	}
}

func (rm *RoomManager) CreateRoom() string {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	roomID := uuid.New().String()
	rm.rooms[roomID] = &Room{ID: roomID, CreatedAt: time.Now(), peers: make(map[string]*Peer)}
	log.Info().Str("room", roomID).Msg("room created")
	return roomID
}

func (rm *RoomManager) getRoom(roomID string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, exists := rm.rooms[roomID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return room, nil
}

func (rm *RoomManager) RoomInfo(ctx context.Context, roomID string) (RoomInfo, error) {
	room, err := rm.getRoom(roomID)
	if err != nil {
		return RoomInfo{}, err
	}
	frames, err := rm.archive.History(ctx, roomID)
	if err != nil {
		return RoomInfo{}, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	peers := make([]string, 0, len(room.peers))
	for id := range room.peers {
		peers = append(peers, id)
	}
	sort.Strings(peers)
	return RoomInfo{ID: room.ID, Peers: peers, Frames: len(frames), CreatedAt: room.CreatedAt}, nil
}

func (rm *RoomManager) History(ctx context.Context, roomID string) ([][]byte, error) {
	if _, err := rm.getRoom(roomID); err != nil {
		return nil, err
	}
	return rm.archive.History(ctx, roomID)
}

// Join greets the peer and replays the room's archive before the peer starts
// receiving live frames, so nothing can interleave with the replay. A peer
// that reconnects under the same id replaces its old connection.
func (rm *RoomManager) Join(ctx context.Context, roomID, peerID string, conn Conn) error {
	room, err := rm.getRoom(roomID)
	if err != nil {
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if stale, exists := room.peers[peerID]; exists {
		log.Info().Str("room", roomID).Str("player", peerID).Msg("replacing stale connection")
		stale.Conn.Close()
		delete(room.peers, peerID)
	}
	if err := conn.WriteMessage(TextMessage, ws.Connected(roomID).Encode()); err != nil {
		return fmt.Errorf("greet peer: %w", err)
	}
	frames, err := rm.archive.History(ctx, roomID)
	if err != nil {
		return err
	}
	for _, frame := range frames {
		if err := conn.WriteMessage(TextMessage, frame); err != nil {
			return fmt.Errorf("replay history: %w", err)
		}
	}
	room.peers[peerID] = &Peer{ID: peerID, Conn: conn, JoinedAt: time.Now()}
	log.Info().Str("room", roomID).Str("player", peerID).Int("replayed", len(frames)).Msg("peer joined")
	return nil
}

// Leave only removes the peer if conn is still its registered connection.
func (rm *RoomManager) Leave(roomID, peerID string, conn Conn) {
	room, err := rm.getRoom(roomID)
	if err != nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if peer, exists := room.peers[peerID]; exists && peer.Conn == conn {
		delete(room.peers, peerID)
		log.Info().Str("room", roomID).Str("player", peerID).Msg("peer left")
	}
}

// Broadcast archives frame and writes it verbatim to every peer in the room,
// the sender included. Peers whose connection fails are dropped.
func (rm *RoomManager) Broadcast(ctx context.Context, roomID string, frame []byte) error {
	room, err := rm.getRoom(roomID)
	if err != nil {
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if err := rm.archive.Append(ctx, roomID, frame); err != nil {
		return err
	}
	for peerID, peer := range room.peers {
		if err := peer.Conn.WriteMessage(TextMessage, frame); err != nil {
			log.Warn().Err(err).Str("room", roomID).Str("player", peerID).Msg("dropping peer after failed write")
			peer.Conn.Close()
			delete(room.peers, peerID)
		}
	}
	log.Debug().Str("room", roomID).Int("peers", len(room.peers)).Int("bytes", len(frame)).Msg("frame relayed")
	return nil
}
