package server

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"polyarena/internal/config"
	"polyarena/internal/game"
)

func createTestConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Width = 1000
	cfg.World.Height = 1000
	cfg.Shapes.InitialShapes = 5
	cfg.Shapes.SpawnInterval = 0
	cfg.Server.MaxSessions = 2
	return cfg
}

func newTestSession(t *testing.T, cfg *config.Config) *Session {
	t.Helper()
	sim := game.NewSimulation(cfg, rand.New(rand.NewSource(12345)))
	return newSession(uuid.New(), nil, cfg, sim)
}

// frameType decodes only the type field of an encoded frame
func frameType(t *testing.T, data []byte) string {
	t.Helper()
	var head struct {
		Type string `msgpack:"type"`
	}
	require.NoError(t, msgpack.Unmarshal(data, &head))
	return head.Type
}

func drain(ch chan []byte) [][]byte {
	var frames [][]byte
	for {
		select {
		case data, ok := <-ch:
			if !ok {
				return frames
			}
			frames = append(frames, data)
		default:
			return frames
		}
	}
}

func TestWorld_AddSessionSendsWelcome(t *testing.T) {
	cfg := createTestConfig()
	w := NewWorld(cfg)
	s := newTestSession(t, cfg)

	require.NoError(t, w.AddSession(s))

	frames := drain(s.Send)
	require.Len(t, frames, 1)
	var welcome WelcomeMsg
	require.NoError(t, msgpack.Unmarshal(frames[0], &welcome))
	assert.Equal(t, MsgTypeWelcome, welcome.Type)
	assert.Equal(t, s.ID.String(), welcome.SessionID)
	assert.Equal(t, game.Bounds{Width: 1000, Height: 1000}, welcome.World)
	assert.Equal(t, game.AllStats, welcome.Stats)
}

func TestWorld_CapacityIsEnforced(t *testing.T) {
	cfg := createTestConfig()
	w := NewWorld(cfg)

	require.NoError(t, w.AddSession(newTestSession(t, cfg)))
	require.NoError(t, w.AddSession(newTestSession(t, cfg)))
	assert.True(t, w.Full())

	err := w.AddSession(newTestSession(t, cfg))
	assert.ErrorIs(t, err, ErrWorldFull)
	assert.Equal(t, 2, w.Stats().Sessions)
}

func TestWorld_RemoveSessionClosesChannel(t *testing.T) {
	cfg := createTestConfig()
	w := NewWorld(cfg)
	s := newTestSession(t, cfg)
	require.NoError(t, w.AddSession(s))

	w.RemoveSession(s.ID)
	w.RemoveSession(s.ID)

	drain(s.Send)
	_, ok := <-s.Send
	assert.False(t, ok)
	_, exists := w.GetSession(s.ID)
	assert.False(t, exists)
	assert.False(t, w.Full())
}

func TestWorld_FullSnapshotThenDeltas(t *testing.T) {
	cfg := createTestConfig()
	w := NewWorld(cfg)
	s := newTestSession(t, cfg)
	require.NoError(t, w.AddSession(s))
	drain(s.Send)

	w.update(1.0 / 60)
	w.update(1.0 / 60)

	frames := drain(s.Send)
	require.Len(t, frames, 2)
	assert.Equal(t, MsgTypeSnapshot, frameType(t, frames[0]))
	assert.Equal(t, MsgTypeDelta, frameType(t, frames[1]))

	var full SnapshotMsg
	require.NoError(t, msgpack.Unmarshal(frames[0], &full))
	assert.Equal(t, uint64(1), full.Tick)
	assert.Len(t, full.Shapes, 5)

	count, size := w.GetSnapshotStats()
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(len(frames[0])+len(frames[1])), size)
}

func TestWorld_DroppedFrameKeepsDeltaBase(t *testing.T) {
	cfg := createTestConfig()
	w := NewWorld(cfg)
	s := newTestSession(t, cfg)
	require.NoError(t, w.AddSession(s))

	// Fill the buffer so the first frame cannot be queued
	for len(s.Send) < cap(s.Send) {
		s.Send <- nil
	}
	w.update(1.0 / 60)
	count, _ := w.GetSnapshotStats()
	assert.Zero(t, count)

	drain(s.Send)
	w.update(1.0 / 60)

	frames := drain(s.Send)
	require.Len(t, frames, 1)
	assert.Equal(t, MsgTypeSnapshot, frameType(t, frames[0]), "nothing was delivered yet, so the frame is full")
}

func TestWorld_Stats(t *testing.T) {
	cfg := createTestConfig()
	w := NewWorld(cfg)
	s := newTestSession(t, cfg)
	require.NoError(t, w.AddSession(s))

	stats := w.Stats()

	assert.Equal(t, 1, stats.Sessions)
	assert.Equal(t, 2, stats.MaxSessions)
	require.Contains(t, stats.Shapes, s.ID.String())
	assert.Equal(t, 5, stats.Shapes[s.ID.String()].Total)
}

func TestSession_InputAndCommands(t *testing.T) {
	cfg := createTestConfig()
	s := newTestSession(t, cfg)

	s.HandleMessage(ClientMsg{Type: MsgTypeInput, Right: true, MouseX: 900, MouseY: 500})
	assert.True(t, s.input.Movement.Right)

	s.sim.Player().UpgradePoints = 1
	s.HandleMessage(ClientMsg{Type: MsgTypeUpgrade, Stat: string(game.StatReload)})
	_, _, err := s.step(1.0 / 60)
	require.NoError(t, err)

	assert.Equal(t, cfg.Upgrades.Reload, s.sim.Player().Stats.Reload)
	assert.Greater(t, s.sim.Player().Pos.X, 500.0)
}

func TestSession_SpawnNeedsDebug(t *testing.T) {
	cfg := createTestConfig()
	s := newTestSession(t, cfg)

	s.HandleMessage(ClientMsg{Type: MsgTypeSpawn, Rarity: "rainbow"})
	_, _, err := s.step(1.0 / 60)
	require.NoError(t, err)
	assert.Equal(t, 5, s.shapeStats().Total)

	cfg.Server.Debug = true
	s = newTestSession(t, cfg)
	s.HandleMessage(ClientMsg{Type: MsgTypeSpawn, Rarity: "rainbow"})
	_, _, err = s.step(1.0 / 60)
	require.NoError(t, err)

	stats := s.shapeStats()
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 1, stats.ByRarity["rainbow"])
}

func TestSession_UnknownMessageIsIgnored(t *testing.T) {
	s := newTestSession(t, createTestConfig())

	assert.NotPanics(t, func() { s.HandleMessage(ClientMsg{Type: "teleport"}) })
	assert.Equal(t, game.Input{}, s.input)
}
