package game

import (
	"log"
	"time"

	"polyarena/internal/config"
)

type commandKind int

const (
	cmdUpgrade commandKind = iota
	cmdReset
	cmdForceSpawn
)

type command struct {
	kind   commandKind
	stat   StatName
	rarity string
}

// Simulation is one authoritative arena: a player, its projectiles, the shape
// population and the cosmetic particles. It is not safe for concurrent use;
// the owner serialises Tick and the command methods.
type Simulation struct {
	cfg        *config.Config
	rng        RNG
	world      Bounds
	epoch      time.Time
	clock      time.Time
	tick       uint64
	table      *SpawnTable
	shapes     *ShapeRegistry
	combat     *CombatController
	collisions *CollisionEngine
	particles  *ParticlePool
	commands   []command
	events     []Event
	listeners  []Listener
}

// NewSimulation builds a simulation and seeds the initial shape population
func NewSimulation(cfg *config.Config, rng RNG) *Simulation {
	world := Bounds{Width: cfg.World.Width, Height: cfg.World.Height}
	table := NewSpawnTable(cfg.Shapes, rng)
	epoch := time.Unix(0, 0).UTC()

	s := &Simulation{
		cfg:        cfg,
		rng:        rng,
		world:      world,
		epoch:      epoch,
		clock:      epoch,
		table:      table,
		shapes:     NewShapeRegistry(cfg.Shapes, world, table, rng),
		combat:     NewCombatController(cfg),
		collisions: NewCollisionEngine(cfg.Shapes, cfg.Player, rng),
		particles:  NewParticlePool(cfg.Particles.MaxParticles, cfg.Particles.Damping),
	}
	s.shapes.Update(0, s.combat.Player().Pos)
	s.shapes.Fill(cfg.Shapes.InitialShapes)
	return s
}

// Subscribe registers a listener for every event emitted from now on
func (s *Simulation) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// ApplyUpgrade queues an upgrade to be applied at the start of the next tick
func (s *Simulation) ApplyUpgrade(stat StatName) {
	s.commands = append(s.commands, command{kind: cmdUpgrade, stat: stat})
}

// Reset queues a player reset for the next tick. Shapes persist.
func (s *Simulation) Reset() {
	s.commands = append(s.commands, command{kind: cmdReset})
}

// ForceSpawn queues a spawn of the named rarity for the next tick
func (s *Simulation) ForceSpawn(rarity string) {
	s.commands = append(s.commands, command{kind: cmdForceSpawn, rarity: rarity})
}

// Tick runs one full update of dt seconds and returns the tick's events
func (s *Simulation) Tick(input Input, dt float64) []Event {
	if dt < 0 {
		dt = 0
	}
	if s.cfg.World.MaxTickDelta > 0 && dt > s.cfg.World.MaxTickDelta {
		dt = s.cfg.World.MaxTickDelta
	}

	s.tick++
	s.clock = s.clock.Add(time.Duration(dt * float64(time.Second)))
	s.events = nil
	s.drainCommands()

	player := s.combat.Player()

	// Movement, aim and firing
	s.combat.UpdateMovement(input.Movement, dt)
	s.combat.UpdateAim(input.Pointer)
	if input.Fire {
		s.combat.TryShoot(s.clock)
	}

	s.combat.UpdateProjectiles(dt)

	s.shapes.Update(dt, player.Pos)
	s.particles.Update(dt)

	s.combat.Regen(dt)

	results := s.collisions.Run(s.combat.Projectiles(), s.shapes, player, s.clock)
	s.applyResults(results)
	s.combat.RemoveConsumed()

	if !player.Alive() {
		s.emit(Event{Kind: EventGameOver, Pos: player.Pos, Score: player.Score, Level: player.Level})
		s.resetSession()
	}

	s.notify()
	return s.events
}

func (s *Simulation) drainCommands() {
	for _, cmd := range s.commands {
		switch cmd.kind {
		case cmdUpgrade:
			if s.combat.ApplyUpgrade(cmd.stat) {
				s.emit(Event{Kind: EventUpgrade, Stat: cmd.stat, Level: s.combat.Player().Level})
			}
		case cmdReset:
			s.resetSession()
		case cmdForceSpawn:
			shape := s.shapes.SpawnWith(s.table.PickArchetype(), s.table.Rarity(cmd.rarity), nil)
			if shape != nil {
				s.emit(Event{Kind: EventShapeSpawned, ShapeID: shape.ID, Archetype: shape.Archetype, Rarity: shape.Rarity, Pos: shape.Pos})
			}
		}
	}
	s.commands = s.commands[:0]
}

func (s *Simulation) applyResults(results []CollisionResult) {
	player := s.combat.Player()
	pcfg := s.cfg.Particles

	for _, r := range results {
		if r.Kind != CollisionProjectileShape {
			continue
		}
		shape := r.Shape
		if !r.Destroyed {
			if r.Damage > 0 {
				s.particles.Add(burst(pcfg, s.rng, r.Projectile.Pos, shape.Color, pcfg.HitCount, 0)...)
			}
			continue
		}

		player.Score += r.XPAwarded
		s.emit(Event{
			Kind:      EventShapeDestroyed,
			ShapeID:   shape.ID,
			Archetype: shape.Archetype,
			Rarity:    shape.Rarity,
			Pos:       shape.Pos,
			XP:        r.XPAwarded,
			Score:     player.Score,
		})
		for _, level := range s.combat.AwardXP(r.XPAwarded) {
			s.emit(Event{Kind: EventLevelUp, Level: level, Pos: player.Pos})
		}
		s.particles.Add(burst(pcfg, s.rng, shape.Pos, shape.Color, pcfg.BurstCount, effectsForRarity(shape.Rarity))...)
	}
}

// resetSession restores the player and clears the transient collections
func (s *Simulation) resetSession() {
	s.combat.ResetPlayer()
	s.combat.ClearProjectiles()
	s.particles.Clear()
}

func (s *Simulation) emit(e Event) {
	e.Tick = s.tick
	s.events = append(s.events, e)
}

func (s *Simulation) notify() {
	for _, l := range s.listeners {
		for _, e := range s.events {
			deliver(l, e)
		}
	}
}

// deliver isolates the tick from a failing listener
func deliver(l Listener, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event listener failed on %s: %v", e.Kind, r)
		}
	}()
	l(e)
}

// Player returns the simulated player
func (s *Simulation) Player() *Player {
	return s.combat.Player()
}

// Shapes returns the shape registry
func (s *Simulation) Shapes() *ShapeRegistry {
	return s.shapes
}

// Projectiles returns the live projectiles
func (s *Simulation) Projectiles() []*Projectile {
	return s.combat.Projectiles()
}

// Particles returns the live particles
func (s *Simulation) Particles() []*Particle {
	return s.particles.Particles()
}

// TickCount returns the number of ticks run so far
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// Elapsed returns the simulated time since creation
func (s *Simulation) Elapsed() time.Duration {
	return s.clock.Sub(s.epoch)
}

// World returns the arena bounds
func (s *Simulation) World() Bounds {
	return s.world
}
