package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"polyarena/internal/game"
)

// Message types for client-server communication
const (
	MsgTypeInput    = "input"
	MsgTypeUpgrade  = "upgrade"
	MsgTypeReset    = "reset"
	MsgTypeSpawn    = "spawn"
	MsgTypeWelcome  = "welcome"
	MsgTypeSnapshot = "snapshot"
	MsgTypeDelta    = "delta"
)

// ClientMsg is any message a client sends. Type selects which fields matter.
type ClientMsg struct {
	Type   string  `json:"type" msgpack:"type"`
	Up     bool    `json:"up" msgpack:"up"`
	Down   bool    `json:"down" msgpack:"down"`
	Left   bool    `json:"left" msgpack:"left"`
	Right  bool    `json:"right" msgpack:"right"`
	MouseX float64 `json:"mouseX" msgpack:"mouseX"` // World coordinates
	MouseY float64 `json:"mouseY" msgpack:"mouseY"`
	Fire   bool    `json:"fire" msgpack:"fire"`
	Stat   string  `json:"stat,omitempty" msgpack:"stat,omitempty"`
	Rarity string  `json:"rarity,omitempty" msgpack:"rarity,omitempty"`
}

// ToInput converts an input message into the simulation's per-tick input
func (m ClientMsg) ToInput() game.Input {
	return game.Input{
		Movement: game.MovementFlags{Up: m.Up, Down: m.Down, Left: m.Left, Right: m.Right},
		Pointer:  game.Vec2{X: m.MouseX, Y: m.MouseY},
		Fire:     m.Fire,
	}
}

// WelcomeMsg is the first message of every session
type WelcomeMsg struct {
	Type      string          `json:"type" msgpack:"type"`
	SessionID string          `json:"sessionId" msgpack:"sessionId"`
	World     game.Bounds     `json:"world" msgpack:"world"`
	Stats     []game.StatName `json:"stats" msgpack:"stats"`
	Debug     bool            `json:"debug" msgpack:"debug"`
}

// SnapshotMsg is a full frame, sent as the first frame of a session
type SnapshotMsg struct {
	Type string `json:"type" msgpack:"type"`
	game.Snapshot
}

// ShapeUpdate carries the fields of a shape that change while it lives
type ShapeUpdate struct {
	ID     uint32    `json:"id" msgpack:"id"`
	Pos    game.Vec2 `json:"pos" msgpack:"pos"`
	Angle  float64   `json:"angle" msgpack:"angle"`
	Health float64   `json:"health" msgpack:"health"`
}

// DeltaMsg is a frame relative to the previous one the client received.
// Shapes are diffed; the small collections are sent whole.
type DeltaMsg struct {
	Type          string            `json:"type" msgpack:"type"`
	Tick          uint64            `json:"tick" msgpack:"tick"`
	Time          int64             `json:"time" msgpack:"time"`
	Player        game.Player       `json:"player" msgpack:"player"`
	Projectiles   []game.Projectile `json:"projectiles" msgpack:"projectiles"`
	ShapesAdded   []game.Shape      `json:"shapesAdded,omitempty" msgpack:"shapesAdded,omitempty"`
	ShapesRemoved []uint32          `json:"shapesRemoved,omitempty" msgpack:"shapesRemoved,omitempty"`
	ShapesMoved   []ShapeUpdate     `json:"shapesMoved,omitempty" msgpack:"shapesMoved,omitempty"`
	Particles     []game.Particle   `json:"particles" msgpack:"particles"`
	Events        []game.Event      `json:"events,omitempty" msgpack:"events,omitempty"`
}

// decodeClientMsg reads a text frame as JSON and a binary frame as msgpack
func decodeClientMsg(messageType int, data []byte) (ClientMsg, error) {
	var msg ClientMsg
	switch messageType {
	case websocket.TextMessage:
		if err := json.Unmarshal(data, &msg); err != nil {
			return msg, fmt.Errorf("decode json message: %w", err)
		}
	case websocket.BinaryMessage:
		if err := msgpack.Unmarshal(data, &msg); err != nil {
			return msg, fmt.Errorf("decode msgpack message: %w", err)
		}
	default:
		return msg, fmt.Errorf("unsupported frame type %d", messageType)
	}
	if msg.Type == "" {
		return msg, errors.New("message has no type")
	}
	return msg, nil
}
