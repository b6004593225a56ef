package game

// Motion describes how a kind of entity is integrated
type Motion struct {
	// Damping multiplies velocity once per tick. Zero means no damping.
	Damping float64
	// FadeRate is the lifetime lost per second.
	FadeRate float64
}

// Projectiles and shapes keep their raw velocity; projectile lifetime is in seconds.
var (
	ProjectileMotion = Motion{FadeRate: 1}
	ShapeMotion      = Motion{}
)

// Integrate advances body by dt seconds and ages lifetime when the entity has one.
// It returns whether the entity is still alive; removing it is the caller's job.
func Integrate(body *Body, lifetime *float64, motion Motion, dt float64) bool {
	body.Pos = body.Pos.Add(body.Vel.Scale(dt))
	if motion.Damping > 0 {
		body.Vel = body.Vel.Scale(motion.Damping)
	}

	if lifetime == nil {
		return true
	}
	*lifetime -= motion.FadeRate * dt
	return *lifetime > 0
}

// ParticlePool holds cosmetic particles under a hard cap
type ParticlePool struct {
	max       int
	damping   float64
	particles []*Particle
}

// NewParticlePool creates a pool that never holds more than capacity particles
func NewParticlePool(capacity int, damping float64) *ParticlePool {
	return &ParticlePool{
		max:       capacity,
		damping:   damping,
		particles: make([]*Particle, 0, max(capacity, 0)),
	}
}

// Add appends particles, dropping the oldest ones past the cap
func (pp *ParticlePool) Add(particles ...*Particle) {
	pp.particles = append(pp.particles, particles...)
	pp.truncate()
}

// Update integrates and fades every particle, keeping the survivors
func (pp *ParticlePool) Update(dt float64) {
	motion := Motion{Damping: pp.damping}
	alive := pp.particles[:0]
	for _, p := range pp.particles {
		motion.FadeRate = p.FadeRate
		if Integrate(&p.Body, &p.Lifetime, motion, dt) {
			alive = append(alive, p)
		}
	}
	clear(pp.particles[len(alive):])
	pp.particles = alive
	pp.truncate()
}

// Clear removes every particle
func (pp *ParticlePool) Clear() {
	clear(pp.particles)
	pp.particles = pp.particles[:0]
}

// Len returns the number of live particles
func (pp *ParticlePool) Len() int {
	return len(pp.particles)
}

// Particles returns the live particles, oldest first
func (pp *ParticlePool) Particles() []*Particle {
	return pp.particles
}

func (pp *ParticlePool) truncate() {
	if pp.max < 0 || len(pp.particles) <= pp.max {
		return
	}
	drop := len(pp.particles) - pp.max
	kept := copy(pp.particles, pp.particles[drop:])
	clear(pp.particles[kept:])
	pp.particles = pp.particles[:kept]
}
