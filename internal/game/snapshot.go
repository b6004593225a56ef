package game

// Snapshot is the frame state handed to rendering, UI and network consumers.
// It holds copies, so consumers may keep it after the next tick.
type Snapshot struct {
	Tick        uint64       `json:"tick" msgpack:"tick"`
	Time        int64        `json:"time" msgpack:"time"` // Simulated milliseconds since start
	World       Bounds       `json:"world" msgpack:"world"`
	Player      Player       `json:"player" msgpack:"player"`
	Projectiles []Projectile `json:"projectiles" msgpack:"projectiles"`
	Shapes      []Shape      `json:"shapes" msgpack:"shapes"`
	Particles   []Particle   `json:"particles" msgpack:"particles"`
	Events      []Event      `json:"events" msgpack:"events"`
}

// Snapshot copies the current frame state
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.tick,
		Time:        s.Elapsed().Milliseconds(),
		World:       s.world,
		Player:      *s.combat.Player(),
		Projectiles: make([]Projectile, 0, len(s.combat.Projectiles())),
		Shapes:      make([]Shape, 0, s.shapes.Count()),
		Particles:   make([]Particle, 0, s.particles.Len()),
		Events:      append([]Event(nil), s.events...),
	}

	for _, p := range s.combat.Projectiles() {
		snap.Projectiles = append(snap.Projectiles, *p)
	}
	for _, shape := range s.shapes.Shapes() {
		snap.Shapes = append(snap.Shapes, *shape)
	}
	for _, p := range s.particles.Particles() {
		snap.Particles = append(snap.Particles, *p)
	}

	return snap
}
