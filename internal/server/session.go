package server

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"polyarena/internal/config"
	"polyarena/internal/game"
)

// sendBuffer is how many encoded frames a slow client may fall behind
const sendBuffer = 32

// Session is one connected client playing its own arena
type Session struct {
	ID   uuid.UUID
	Conn *websocket.Conn
	Send chan []byte

	debug        bool
	mu           sync.Mutex
	sim          *game.Simulation
	input        game.Input
	lastSnapshot *game.Snapshot
}

// NewSession creates a session with a freshly seeded simulation
func NewSession(conn *websocket.Conn, cfg *config.Config) *Session {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return newSession(uuid.New(), conn, cfg, game.NewSimulation(cfg, rng))
}

func newSession(id uuid.UUID, conn *websocket.Conn, cfg *config.Config, sim *game.Simulation) *Session {
	s := &Session{
		ID:    id,
		Conn:  conn,
		Send:  make(chan []byte, sendBuffer),
		debug: cfg.Server.Debug,
		sim:   sim,
	}
	sim.Subscribe(s.logEvent)
	return s
}

// HandleMessage applies one decoded client message. Commands take effect on
// the next tick.
func (s *Session) HandleMessage(msg ClientMsg) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case MsgTypeInput:
		s.input = msg.ToInput()
	case MsgTypeUpgrade:
		s.sim.ApplyUpgrade(game.StatName(msg.Stat))
	case MsgTypeReset:
		s.sim.Reset()
	case MsgTypeSpawn:
		if !s.debug {
			log.Printf("Session %s sent spawn with debug disabled", s.ID)
			return
		}
		s.sim.ForceSpawn(msg.Rarity)
	default:
		log.Printf("Session %s sent unknown message type %q", s.ID, msg.Type)
	}
}

// step advances the simulation by dt and encodes the frame for this client:
// a full snapshot the first time, a delta against the last sent frame after
func (s *Session) step(dt float64) ([]byte, game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sim.Tick(s.input, dt)
	snap := s.sim.Snapshot()

	var data []byte
	var err error
	if s.lastSnapshot == nil {
		data, err = msgpack.Marshal(SnapshotMsg{Type: MsgTypeSnapshot, Snapshot: snap})
	} else {
		data, err = msgpack.Marshal(buildDelta(snap, *s.lastSnapshot))
	}
	return data, snap, err
}

// delivered records snap as the base for the next delta
func (s *Session) delivered(snap game.Snapshot) {
	s.mu.Lock()
	s.lastSnapshot = &snap
	s.mu.Unlock()
}

// welcome encodes the session's first message
func (s *Session) welcome() ([]byte, error) {
	return msgpack.Marshal(WelcomeMsg{
		Type:      MsgTypeWelcome,
		SessionID: s.ID.String(),
		World:     s.sim.World(),
		Stats:     game.AllStats,
		Debug:     s.debug,
	})
}

// shapeStats returns the live shape population of this session's arena
func (s *Session) shapeStats() game.ShapeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Shapes().Stats()
}

func (s *Session) logEvent(e game.Event) {
	switch e.Kind {
	case game.EventGameOver:
		log.Printf("Session %s game over at level %d with score %d", s.ID, e.Level, e.Score)
	case game.EventLevelUp:
		log.Printf("Session %s reached level %d", s.ID, e.Level)
	case game.EventUpgrade:
		log.Printf("Session %s upgraded %s", s.ID, e.Stat)
	case game.EventShapeDestroyed:
		if e.Rarity != "" && e.Rarity != "normal" {
			log.Printf("Session %s destroyed a %s %s for %d xp", s.ID, e.Rarity, e.Archetype, e.XP)
		}
	}
}
