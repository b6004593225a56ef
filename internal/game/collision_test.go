package game

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *CollisionEngine {
	t.Helper()
	cfg := createTestConfig()
	return NewCollisionEngine(cfg.Shapes, cfg.Player, testRNG())
}

func TestOverlaps_StrictThreshold(t *testing.T) {
	a := Vec2{X: 0, Y: 0}

	assert.False(t, Overlaps(a, 10, Vec2{X: 30, Y: 0}, 20), "tangent circles do not collide")
	assert.True(t, Overlaps(a, 10, Vec2{X: 30 - 1e-9, Y: 0}, 20))
	assert.False(t, Overlaps(a, 10, Vec2{X: 18, Y: 24}, 20), "distance 30 along a diagonal")
}

func TestDetect_ProjectileHitsFirstShapeOnly(t *testing.T) {
	e := newTestEngine(t)
	first := &Shape{ID: 1, Body: Body{Pos: Vec2{X: 100, Y: 100}, Radius: 20}, Health: 10}
	second := &Shape{ID: 2, Body: Body{Pos: Vec2{X: 105, Y: 100}, Radius: 20}, Health: 10}
	p := &Projectile{ID: 1, Body: Body{Pos: Vec2{X: 102, Y: 100}, Radius: 5}, Damage: 4}

	events := e.Detect([]*Projectile{p}, []*Shape{first, second}, nil)

	require.Len(t, events, 1)
	assert.Equal(t, CollisionProjectileShape, events[0].Kind)
	assert.Same(t, first, events[0].Shape)
}

func TestDetect_ProjectilesBeforePlayerContact(t *testing.T) {
	e := newTestEngine(t)
	shape := &Shape{ID: 1, Body: Body{Pos: Vec2{X: 100, Y: 100}, Radius: 20}, Health: 10}
	player := &Player{Body: Body{Pos: Vec2{X: 120, Y: 100}, Radius: 10}, Health: 100}
	p := &Projectile{Body: Body{Pos: Vec2{X: 90, Y: 100}, Radius: 5}}

	events := e.Detect([]*Projectile{p}, []*Shape{shape}, player)

	require.Len(t, events, 2)
	assert.Equal(t, CollisionProjectileShape, events[0].Kind)
	assert.Equal(t, CollisionPlayerShape, events[1].Kind)
}

func TestResolve_ProjectileDamageAndDestruction(t *testing.T) {
	e := newTestEngine(t)
	shape := &Shape{ID: 7, Rarity: "normal", Health: 15, MaxHealth: 15, XPReward: 25}
	p1 := &Projectile{Damage: 10}
	p2 := &Projectile{Damage: 10}
	now := time.Unix(0, 0)

	r1 := e.Resolve(CollisionEvent{Kind: CollisionProjectileShape, Projectile: p1, Shape: shape}, now)
	assert.False(t, r1.Destroyed)
	assert.Equal(t, 10.0, r1.Damage)
	assert.Zero(t, r1.XPAwarded)
	assert.True(t, p1.Consumed(), "projectile is spent even without a kill")
	assert.Equal(t, 5.0, shape.Health)

	r2 := e.Resolve(CollisionEvent{Kind: CollisionProjectileShape, Projectile: p2, Shape: shape}, now)
	assert.True(t, r2.Destroyed)
	assert.Equal(t, 25, r2.XPAwarded)
	assert.Equal(t, "normal", r2.Rarity)
	assert.Same(t, shape, r2.Shape)
	assert.True(t, p2.Consumed())
}

func TestResolve_ContactDamageScalesWithRarity(t *testing.T) {
	e := newTestEngine(t)
	player := &Player{Body: Body{Pos: Vec2{X: 110, Y: 100}, Radius: 10}, Health: 100, MaxHealth: 100}
	shape := &Shape{Body: Body{Pos: Vec2{X: 100, Y: 100}, Radius: 20}, Rarity: "legendary", Damage: 5, Health: 10}

	r := e.Resolve(CollisionEvent{Kind: CollisionPlayerShape, Player: player, Shape: shape}, time.Unix(1, 0))

	assert.Equal(t, 10.0, r.Damage, "legendary doubles contact damage")
	assert.Equal(t, 90.0, player.Health)
	// Push-back runs from the shape centre towards the player
	assert.InDelta(t, 120*2, player.Vel.X, 1e-9)
	assert.InDelta(t, 0, player.Vel.Y, 1e-9)
}

func TestResolve_ContactAtSameCentreDoesNotDivideByZero(t *testing.T) {
	e := newTestEngine(t)
	player := &Player{Body: Body{Pos: Vec2{X: 100, Y: 100}, Radius: 10}, Health: 100}
	shape := &Shape{Body: Body{Pos: Vec2{X: 100, Y: 100}, Radius: 20}, Rarity: "normal", Damage: 5, Health: 10}

	e.Resolve(CollisionEvent{Kind: CollisionPlayerShape, Player: player, Shape: shape}, time.Unix(1, 0))

	assert.False(t, math.IsNaN(player.Vel.X))
	assert.False(t, math.IsNaN(player.Vel.Y))
	assert.InDelta(t, 120, player.Vel.Len(), 1e-9)
}

func TestResolve_ContactHealthNeverNegative(t *testing.T) {
	e := newTestEngine(t)
	player := &Player{Body: Body{Radius: 10}, Health: 3}
	shape := &Shape{Body: Body{Pos: Vec2{X: 5}, Radius: 20}, Rarity: "normal", Damage: 50, Health: 10}

	e.Resolve(CollisionEvent{Kind: CollisionPlayerShape, Player: player, Shape: shape}, time.Unix(1, 0))

	assert.Equal(t, 0.0, player.Health)
}

func TestResolve_ContactCooldown(t *testing.T) {
	cfg := createTestConfig()
	cfg.Player.ContactDamageCooldown = 0.5
	e := NewCollisionEngine(cfg.Shapes, cfg.Player, testRNG())
	player := &Player{Body: Body{Pos: Vec2{X: 110}, Radius: 10}, Health: 100}
	shape := &Shape{Body: Body{Radius: 20}, Rarity: "normal", Damage: 5, Health: 10}
	ev := CollisionEvent{Kind: CollisionPlayerShape, Player: player, Shape: shape}
	start := time.Unix(100, 0)

	assert.Equal(t, 5.0, e.Resolve(ev, start).Damage)
	assert.Zero(t, e.Resolve(ev, start.Add(100*time.Millisecond)).Damage)
	assert.Equal(t, 5.0, e.Resolve(ev, start.Add(500*time.Millisecond)).Damage)
	assert.Equal(t, 90.0, player.Health)
}

func TestResolve_NoCooldownDamagesEveryTick(t *testing.T) {
	e := newTestEngine(t)
	player := &Player{Body: Body{Pos: Vec2{X: 110}, Radius: 10}, Health: 100}
	shape := &Shape{Body: Body{Radius: 20}, Rarity: "normal", Damage: 5, Health: 10}
	ev := CollisionEvent{Kind: CollisionPlayerShape, Player: player, Shape: shape}
	now := time.Unix(100, 0)

	for i := 0; i < 4; i++ {
		e.Resolve(ev, now)
	}

	assert.Equal(t, 80.0, player.Health)
}

func TestRun_OneHitPerProjectilePerTick(t *testing.T) {
	r, table := newTestRegistry(t)
	e := newTestEngine(t)
	a := placeShape(r, table, "pentagon", Vec2{X: 500, Y: 500})
	b := placeShape(r, table, "pentagon", Vec2{X: 510, Y: 500})
	player := &Player{Body: Body{Pos: Vec2{X: 100, Y: 100}, Radius: 10}, Health: 100}
	p := &Projectile{Body: Body{Pos: Vec2{X: 505, Y: 500}, Radius: 5}, Damage: 10}

	results := e.Run([]*Projectile{p}, r, player, time.Unix(0, 0))

	require.Len(t, results, 1)
	assert.Same(t, a, results[0].Shape)
	assert.Equal(t, a.MaxHealth-10, a.Health)
	assert.Equal(t, b.MaxHealth, b.Health, "the second overlapped shape is untouched")
	assert.True(t, p.Consumed())
}

func TestRun_DestroyedShapeDealsNoContactDamage(t *testing.T) {
	r, table := newTestRegistry(t)
	e := newTestEngine(t)
	shape := placeShape(r, table, "triangle", Vec2{X: 500, Y: 500})
	player := &Player{Body: Body{Pos: Vec2{X: 520, Y: 500}, Radius: 10}, Health: 100}
	p := &Projectile{Body: Body{Pos: Vec2{X: 490, Y: 500}, Radius: 5}, Damage: 1000}

	results := e.Run([]*Projectile{p}, r, player, time.Unix(0, 0))

	require.Len(t, results, 1)
	assert.True(t, results[0].Destroyed)
	assert.Equal(t, shape.XPReward, results[0].XPAwarded)
	assert.Equal(t, 100.0, player.Health)
	assert.Zero(t, r.Count())
}

func TestRun_SecondProjectileSkipsDestroyedShape(t *testing.T) {
	r, table := newTestRegistry(t)
	e := newTestEngine(t)
	front := placeShape(r, table, "triangle", Vec2{X: 500, Y: 500})
	back := placeShape(r, table, "triangle", Vec2{X: 530, Y: 500})
	player := &Player{Body: Body{Pos: Vec2{X: 100, Y: 100}, Radius: 10}, Health: 100}
	p1 := &Projectile{Body: Body{Pos: Vec2{X: 515, Y: 500}, Radius: 5}, Damage: 1000}
	p2 := &Projectile{Body: Body{Pos: Vec2{X: 515, Y: 500}, Radius: 5}, Damage: 1000}

	results := e.Run([]*Projectile{p1, p2}, r, player, time.Unix(0, 0))

	require.Len(t, results, 2)
	assert.Same(t, front, results[0].Shape)
	assert.Same(t, back, results[1].Shape)
	assert.Zero(t, r.Count())
}

func TestRun_ContactAfterProjectilePass(t *testing.T) {
	r, table := newTestRegistry(t)
	e := newTestEngine(t)
	shape := placeShape(r, table, "hexagon", Vec2{X: 500, Y: 500})
	player := &Player{Body: Body{Pos: Vec2{X: 530, Y: 500}, Radius: 25}, Health: 100}
	p := &Projectile{Body: Body{Pos: Vec2{X: 470, Y: 500}, Radius: 5}, Damage: 10}

	results := e.Run([]*Projectile{p}, r, player, time.Unix(0, 0))

	require.Len(t, results, 2)
	assert.Equal(t, CollisionProjectileShape, results[0].Kind)
	assert.Equal(t, CollisionPlayerShape, results[1].Kind)
	assert.Equal(t, 100-shape.Damage, player.Health)
}

func TestRun_ResolvesWhatDetectReports(t *testing.T) {
	r, table := newTestRegistry(t)
	e := newTestEngine(t)
	near := placeShape(r, table, "square", Vec2{X: 500, Y: 500})
	far := placeShape(r, table, "square", Vec2{X: 800, Y: 800})
	touching := placeShape(r, table, "triangle", Vec2{X: 560, Y: 500})
	player := &Player{Body: Body{Pos: Vec2{X: 530, Y: 500}, Radius: 25}, Health: 100}

	events := e.Detect(nil, r.Shapes(), player)
	require.Len(t, events, 2)
	assert.Equal(t, 100.0, player.Health, "detection applies nothing")

	results := e.Run(nil, r, player, time.Unix(0, 0))

	require.Len(t, results, len(events))
	for i, event := range events {
		assert.Equal(t, event.Kind, results[i].Kind)
		assert.Same(t, event.Shape, results[i].Shape)
	}
	assert.Equal(t, 100-near.Damage-touching.Damage, player.Health)
	assert.Equal(t, far.MaxHealth, far.Health)
}

func TestRun_DeadPlayerTakesNoContact(t *testing.T) {
	r, table := newTestRegistry(t)
	e := newTestEngine(t)
	placeShape(r, table, "square", Vec2{X: 500, Y: 500})
	player := &Player{Body: Body{Pos: Vec2{X: 500, Y: 500}, Radius: 25}}

	assert.Empty(t, e.Run(nil, r, player, time.Unix(0, 0)))
	assert.Zero(t, player.Vel)
}
