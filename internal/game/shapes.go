package game

import (
	"math"
	"slices"

	"polyarena/internal/config"
)

// ShapeStats breaks the live population down for observability
type ShapeStats struct {
	Total       int            `json:"total" msgpack:"total"`
	ByRarity    map[string]int `json:"byRarity" msgpack:"byRarity"`
	ByArchetype map[string]int `json:"byArchetype" msgpack:"byArchetype"`
}

// ShapeRegistry owns every live shape. It never awards XP or score itself.
type ShapeRegistry struct {
	cfg        config.ShapesConfig
	world      Bounds
	table      *SpawnTable
	rng        RNG
	shapes     []*Shape
	byID       map[uint32]*Shape
	nextID     uint32
	spawnTimer float64
	playerPos  Vec2
}

// NewShapeRegistry creates an empty registry
func NewShapeRegistry(cfg config.ShapesConfig, world Bounds, table *SpawnTable, rng RNG) *ShapeRegistry {
	return &ShapeRegistry{
		cfg:    cfg,
		world:  world,
		table:  table,
		rng:    rng,
		shapes: make([]*Shape, 0, max(cfg.MaxShapes, 0)),
		byID:   make(map[uint32]*Shape),
		nextID: 1,
	}
}

// Spawn adds one random shape. A nil pos places it with FindSafePosition.
// It returns nil when the registry is at capacity.
func (r *ShapeRegistry) Spawn(pos *Vec2) *Shape {
	if r.Full() {
		return nil
	}
	return r.SpawnWith(r.table.PickArchetype(), r.table.PickRarity(), pos)
}

// SpawnWith adds a shape of a chosen archetype and rarity, respecting capacity
func (r *ShapeRegistry) SpawnWith(archetype config.Archetype, rarity config.Rarity, pos *Vec2) *Shape {
	if r.Full() {
		return nil
	}

	shape := r.buildShape(archetype, rarity)
	if pos != nil {
		shape.Pos = r.world.Clamp(*pos, shape.Radius)
	} else {
		shape.Pos, _ = r.table.FindSafePosition(r.world, r.playerPos, r.cfg.MinSafeDistance, r.cfg.SpawnAttempts, shape.Radius, r.shapes)
	}

	r.shapes = append(r.shapes, shape)
	r.byID[shape.ID] = shape
	return shape
}

// Fill spawns shapes until count reaches n or the cap
func (r *ShapeRegistry) Fill(n int) {
	for r.Count() < n {
		if r.Spawn(nil) == nil {
			return
		}
	}
}

func (r *ShapeRegistry) buildShape(archetype config.Archetype, rarity config.Rarity) *Shape {
	color := archetype.Color
	if rarity.Color != "" {
		color = rarity.Color
	}
	health := archetype.Health * rarity.HealthMultiplier

	shape := &Shape{
		ID:            r.nextID,
		Archetype:     archetype.Name,
		Sides:         archetype.Sides,
		Rarity:        rarity.Name,
		Health:        health,
		MaxHealth:     health,
		XPReward:      int(math.Round(float64(archetype.XP) * rarity.XPMultiplier)),
		Damage:        archetype.Damage,
		Color:         color,
		MaxSpeed:      archetype.Speed,
		Angle:         r.rng.Float64() * 2 * math.Pi,
		RotationSpeed: (r.rng.Float64()*2 - 1) * r.cfg.MaxRotationSpeed,
	}
	shape.Radius = archetype.Size * rarity.SizeMultiplier
	shape.Vel = r.randomVelocity(archetype.Speed)
	r.nextID++
	return shape
}

func (r *ShapeRegistry) randomVelocity(maxSpeed float64) Vec2 {
	angle := r.rng.Float64() * 2 * math.Pi
	return FromAngle(angle, r.rng.Float64()*maxSpeed)
}

// Update moves, rotates and bounces every shape, then runs the spawn timer
func (r *ShapeRegistry) Update(dt float64, playerPos Vec2) {
	r.playerPos = playerPos

	for _, s := range r.shapes {
		Integrate(&s.Body, nil, ShapeMotion, dt)
		s.Angle = math.Mod(s.Angle+s.RotationSpeed*dt, 2*math.Pi)
		r.bounce(s)

		if r.rng.Float64() < r.cfg.ResteerChance {
			s.Vel = r.randomVelocity(s.MaxSpeed)
		}
	}

	if r.cfg.SpawnInterval <= 0 {
		return
	}
	r.spawnTimer += dt
	if r.spawnTimer >= r.cfg.SpawnInterval {
		r.spawnTimer -= r.cfg.SpawnInterval
		r.Spawn(nil)
	}
}

// bounce reflects the velocity on any crossed edge and clamps the shape back inside
func (r *ShapeRegistry) bounce(s *Shape) {
	if s.Pos.X < s.Radius {
		s.Pos.X = s.Radius
		s.Vel.X = math.Abs(s.Vel.X)
	} else if s.Pos.X > r.world.Width-s.Radius {
		s.Pos.X = r.world.Width - s.Radius
		s.Vel.X = -math.Abs(s.Vel.X)
	}
	if s.Pos.Y < s.Radius {
		s.Pos.Y = s.Radius
		s.Vel.Y = math.Abs(s.Vel.Y)
	} else if s.Pos.Y > r.world.Height-s.Radius {
		s.Pos.Y = r.world.Height - s.Radius
		s.Vel.Y = -math.Abs(s.Vel.Y)
	}
}

// Remove deletes a shape by id
func (r *ShapeRegistry) Remove(id uint32) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, s := range r.shapes {
		if s.ID == id {
			r.shapes = slices.Delete(r.shapes, i, i+1)
			break
		}
	}
	return true
}

// RemoveDestroyed drops every shape with no health left and returns them
func (r *ShapeRegistry) RemoveDestroyed() []*Shape {
	var removed []*Shape
	alive := r.shapes[:0]
	for _, s := range r.shapes {
		if s.Destroyed() {
			removed = append(removed, s)
			delete(r.byID, s.ID)
			continue
		}
		alive = append(alive, s)
	}
	clear(r.shapes[len(alive):])
	r.shapes = alive
	return removed
}

// Get returns a live shape by id
func (r *ShapeRegistry) Get(id uint32) (*Shape, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Shapes returns the live shapes in spawn order
func (r *ShapeRegistry) Shapes() []*Shape {
	return r.shapes
}

// Count returns the number of live shapes
func (r *ShapeRegistry) Count() int {
	return len(r.shapes)
}

// Full reports whether the registry is at capacity
func (r *ShapeRegistry) Full() bool {
	return len(r.shapes) >= r.cfg.MaxShapes
}

// Stats counts the live shapes by rarity and archetype
func (r *ShapeRegistry) Stats() ShapeStats {
	stats := ShapeStats{
		Total:       len(r.shapes),
		ByRarity:    make(map[string]int),
		ByArchetype: make(map[string]int),
	}
	for _, s := range r.shapes {
		stats.ByRarity[s.Rarity]++
		stats.ByArchetype[s.Archetype]++
	}
	return stats
}
