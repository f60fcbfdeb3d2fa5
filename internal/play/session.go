package play

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/starchess-backend/internal/model"
	"github.com/benbeisheim/starchess-backend/internal/ws"
	"github.com/rs/zerolog/log"
)

var ErrNotYourTurn = errors.New("not your turn")

// Relay is the outbound half of a room connection.
type Relay interface {
	Broadcast(msg ws.Message) error
}

// Session drives one Game, either hot-seat on one machine or against a peer
// through a relay. Online, a move only takes effect when the relay echoes it
// back, so both peers apply actions in relay order.
type Session struct {
	Game     *model.Game
	PlayerID string

	relay Relay
	seat  model.Color
}

func NewLocal(game *model.Game) *Session {
	return &Session{Game: game}
}

func NewOnline(game *model.Game, relay Relay, playerID string, seat model.Color) *Session {
	return &Session{Game: game, PlayerID: playerID, relay: relay, seat: seat}
}

func (s *Session) Online() bool {
	return s.relay != nil
}

// Seat is the color this peer plays online. Local sessions play both.
func (s *Session) Seat() (model.Color, bool) {
	return s.seat, s.Online()
}

// Move validates from -> to against the engine. Locally it is committed at
// once and the resulting events are returned. Online it is broadcast and the
// returned events are nil until OnReceive sees the echo.
func (s *Session) Move(from, to model.Position, promotion model.PieceType) ([]model.Event, error) {
	if s.Online() && s.Game.GetState().ToMove != s.seat {
		return nil, fmt.Errorf("%w: you play %s", ErrNotYourTurn, s.seat)
	}
	move, err := s.Game.FindMove(from, to, promotion)
	if err != nil {
		return nil, err
	}
	token := model.SerializeAction(move)

	if !s.Online() {
		return s.Game.ApplyAction(token)
	}
	if err := s.relay.Broadcast(ws.Action(token, s.PlayerID)); err != nil {
		return nil, err
	}
	log.Debug().Str("token", token).Str("player", s.PlayerID).Msg("action sent")
	return nil, nil
}

// Reset starts a new game, for both peers when online.
func (s *Session) Reset() error {
	if !s.Online() {
		s.Game.Reset()
		return nil
	}
	return s.relay.Broadcast(ws.Reset(s.PlayerID))
}

// OnReceive applies a frame that came back from the relay. Frames that do not
// apply are logged and dropped; the game is left untouched.
func (s *Session) OnReceive(msg ws.Message) ([]model.Event, error) {
	switch msg.Type {
	case ws.MessageTypeAction:
		events, err := s.Game.ApplyAction(msg.Payload)
		if err != nil {
			log.Warn().Err(err).Str("token", msg.Payload).Str("from", msg.PlayerID).Msg("dropping action")
			return nil, err
		}
		return events, nil
	case ws.MessageTypeReset:
		log.Info().Str("from", msg.PlayerID).Msg("game reset")
		s.Game.Reset()
	case ws.MessageTypeConnected:
		log.Info().Str("room", msg.Payload).Msg("joined room")
	case ws.MessageTypeError:
		log.Warn().Str("error", msg.Payload).Msg("relay error")
		return nil, fmt.Errorf("relay: %s", msg.Payload)
	}
	return nil, nil
}
