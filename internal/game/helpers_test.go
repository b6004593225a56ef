package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"polyarena/internal/config"
)

// testRNG returns a seeded RNG for deterministic tests
func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

// scriptedRNG replays values in a loop and counts draws
type scriptedRNG struct {
	values []float64
	calls  int
}

func (r *scriptedRNG) Float64() float64 {
	v := r.values[r.calls%len(r.values)]
	r.calls++
	return v
}

// createTestConfig is a small quiet arena: no initial shapes, no periodic
// spawning and no random re-steering.
func createTestConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Width = 1000
	cfg.World.Height = 1000
	cfg.Shapes.InitialShapes = 0
	cfg.Shapes.SpawnInterval = 0
	cfg.Shapes.ResteerChance = 0
	cfg.Shapes.MaxShapes = 20
	return cfg
}

// placeShape spawns a still shape of the given archetype at pos
func placeShape(r *ShapeRegistry, table *SpawnTable, archetype string, pos Vec2) *Shape {
	s := r.SpawnWith(table.Archetype(archetype), table.Rarity("normal"), &pos)
	if s != nil {
		s.Vel = Vec2{}
		s.RotationSpeed = 0
	}
	return s
}

// assertInvariants checks what must hold after every tick: health within
// [0, max], bodies inside the world and populations under their caps.
func assertInvariants(t *testing.T, sim *Simulation) {
	t.Helper()
	world := sim.World()

	p := sim.Player()
	assert.GreaterOrEqual(t, p.Health, 0.0, "player health")
	assert.LessOrEqual(t, p.Health, p.MaxHealth, "player health")
	assert.True(t, inside(world, p.Pos, p.Radius), "player at %v leaves the world", p.Pos)

	assert.LessOrEqual(t, sim.Shapes().Count(), sim.cfg.Shapes.MaxShapes)
	for _, s := range sim.Shapes().Shapes() {
		assert.Greater(t, s.Health, 0.0, "shape %d is destroyed but still registered", s.ID)
		assert.LessOrEqual(t, s.Health, s.MaxHealth, "shape %d health", s.ID)
		assert.True(t, inside(world, s.Pos, s.Radius), "shape %d at %v leaves the world", s.ID, s.Pos)
	}

	assert.LessOrEqual(t, len(sim.Particles()), sim.cfg.Particles.MaxParticles)
}

func inside(b Bounds, pos Vec2, margin float64) bool {
	return pos.X >= margin && pos.X <= b.Width-margin && pos.Y >= margin && pos.Y <= b.Height-margin
}
