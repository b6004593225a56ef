package game

// EventKind identifies a notification produced by a tick
type EventKind string

const (
	EventShapeDestroyed EventKind = "shapeDestroyed"
	EventLevelUp        EventKind = "levelUp"
	EventUpgrade        EventKind = "upgrade"
	EventShapeSpawned   EventKind = "shapeSpawned"
	EventGameOver       EventKind = "gameOver"
)

// Event is a transient notification for the UI layer. Only the fields that
// matter for its Kind are set.
type Event struct {
	Kind      EventKind `json:"kind" msgpack:"kind"`
	Tick      uint64    `json:"tick" msgpack:"tick"`
	ShapeID   uint32    `json:"shapeId,omitempty" msgpack:"shapeId,omitempty"`
	Archetype string    `json:"archetype,omitempty" msgpack:"archetype,omitempty"`
	Rarity    string    `json:"rarity,omitempty" msgpack:"rarity,omitempty"`
	Pos       Vec2      `json:"pos" msgpack:"pos"`
	XP        int       `json:"xp,omitempty" msgpack:"xp,omitempty"`
	Level     int       `json:"level,omitempty" msgpack:"level,omitempty"`
	Score     int       `json:"score,omitempty" msgpack:"score,omitempty"`
	Stat      StatName  `json:"stat,omitempty" msgpack:"stat,omitempty"`
}

// Listener receives the events of each tick after its state mutation is complete
type Listener func(Event)
