package ws

import (
	"encoding/json"
	"fmt"
)

// MessageType represents the different kinds of frames peers exchange through the relay
type MessageType string

const (
	MessageTypeConnected MessageType = "connected"
	MessageTypeAction    MessageType = "action"
	MessageTypeReset     MessageType = "reset"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope every frame carries. The relay never looks inside it.
type Message struct {
	Type     MessageType `json:"type"`
	Payload  string      `json:"payload,omitempty"`
	PlayerID string      `json:"playerId,omitempty"`
}

func Action(token, playerID string) Message {
	return Message{Type: MessageTypeAction, Payload: token, PlayerID: playerID}
}

func Reset(playerID string) Message {
	return Message{Type: MessageTypeReset, PlayerID: playerID}
}

func Connected(roomID string) Message {
	return Message{Type: MessageTypeConnected, Payload: roomID}
}

func ErrorMessage(text string) Message {
	return Message{Type: MessageTypeError, Payload: text}
}

func (m Message) Encode() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		// Message only holds strings.
		panic(err)
	}
	return data
}

// Decode accepts only the closed set of message types above.
func Decode(frame []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return Message{}, fmt.Errorf("decode frame: %w", err)
	}
	switch msg.Type {
	case MessageTypeConnected, MessageTypeAction, MessageTypeReset, MessageTypeError:
		return msg, nil
	default:
		return Message{}, fmt.Errorf("unknown message type: %q", msg.Type)
	}
}
