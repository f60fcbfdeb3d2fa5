package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/benbeisheim/starchess-backend/internal/ws"
	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("connection closed")

const inboundBuffer = 64

// Client is one peer's connection to a relay room.
type Client struct {
	RoomID   string
	PlayerID string

	conn    *websocket.Conn
	writeMu sync.Mutex
	inbound chan ws.Message
	done    chan struct{}
	once    sync.Once
}

// CreateRoom asks the relay at baseURL for a fresh room and returns its id.
func CreateRoom(baseURL, playerID string) (string, error) {
	agent := fiber.Post(strings.TrimRight(baseURL, "/")+"/api/rooms").Set("X-Player-ID", playerID)
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("create room: %w", errors.Join(errs...))
	}
	if code != fiber.StatusCreated && code != fiber.StatusOK {
		return "", fmt.Errorf("create room: relay answered %d: %s", code, body)
	}
	var created struct {
		RoomID string `json:"room_id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.RoomID == "" {
		return "", fmt.Errorf("create room: unexpected body %q", body)
	}
	return created.RoomID, nil
}

// RoomURL turns a relay base address (http, https, ws or wss; host:port also
// accepted) into the websocket address of roomID.
func RoomURL(baseURL, roomID, playerID string) (string, error) {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("relay address %q: %w", baseURL, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("relay address %q: unsupported scheme %q", baseURL, u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/rooms/" + url.PathEscape(roomID)
	u.RawQuery = url.Values{"playerId": {playerID}}.Encode()
	return u.String(), nil
}

// Connect dials the room and starts the background reader.
func Connect(ctx context.Context, baseURL, roomID, playerID string) (*Client, error) {
	address, err := RoomURL(baseURL, roomID, playerID)
	if err != nil {
		return nil, err
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, address, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", address, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	c := &Client{
		RoomID:   roomID,
		PlayerID: playerID,
		conn:     conn,
		inbound:  make(chan ws.Message, inboundBuffer),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	log.Info().Str("room", roomID).Str("player", playerID).Msg("connected to relay")
	return c, nil
}

// readLoop only decodes and enqueues. It closes Inbound when the connection ends.
func (c *Client) readLoop() {
	defer close(c.inbound)
	for {
		messageType, frame, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				log.Warn().Err(err).Str("room", c.RoomID).Msg("relay connection lost")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		msg, err := ws.Decode(frame)
		if err != nil {
			log.Warn().Err(err).Str("room", c.RoomID).Msg("dropping malformed frame")
			continue
		}
		select {
		case c.inbound <- msg:
		case <-c.done:
			return
		}
	}
}

func (c *Client) Inbound() <-chan ws.Message {
	return c.inbound
}

// Broadcast sends msg to the relay, which echoes it to every peer including us.
func (c *Client) Broadcast(msg ws.Message) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	if msg.PlayerID == "" {
		msg.PlayerID = c.PlayerID
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, msg.Encode()); err != nil {
		return fmt.Errorf("broadcast %s: %w", msg.Type, err)
	}
	return nil
}

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
