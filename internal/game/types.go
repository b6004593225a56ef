package game

import (
	"time"
)

// RNG is the random source every spawn and steering decision draws from.
// *rand.Rand satisfies it.
type RNG interface {
	Float64() float64
}

// MovementFlags are the held direction keys
type MovementFlags struct {
	Up    bool `json:"up" msgpack:"up"`
	Down  bool `json:"down" msgpack:"down"`
	Left  bool `json:"left" msgpack:"left"`
	Right bool `json:"right" msgpack:"right"`
}

// Input is the per-tick snapshot produced by the input collector
type Input struct {
	Movement MovementFlags `json:"movement" msgpack:"movement"`
	Pointer  Vec2          `json:"pointer" msgpack:"pointer"` // Pointer position in world units
	Fire     bool          `json:"fire" msgpack:"fire"`
}

// Body is the kinematic state every simulated entity carries
type Body struct {
	Pos    Vec2    `json:"pos" msgpack:"pos"`
	Vel    Vec2    `json:"vel" msgpack:"vel"`
	Radius float64 `json:"radius" msgpack:"radius"`
}

// Stats are the player's multiplicative modifiers, all 1.0 at spawn
type Stats struct {
	Damage      float64 `json:"damage" msgpack:"damage"`
	Reload      float64 `json:"reload" msgpack:"reload"`
	Speed       float64 `json:"speed" msgpack:"speed"`
	Regen       float64 `json:"regen" msgpack:"regen"`
	BulletSpeed float64 `json:"bulletSpeed" msgpack:"bulletSpeed"`
}

// BaseStats returns the spawn modifiers
func BaseStats() Stats {
	return Stats{Damage: 1, Reload: 1, Speed: 1, Regen: 1, BulletSpeed: 1}
}

// Player is the tank controlled by a session
type Player struct {
	Body
	Angle         float64 `json:"angle" msgpack:"angle"` // Aim, radians
	Health        float64 `json:"health" msgpack:"health"`
	MaxHealth     float64 `json:"maxHealth" msgpack:"maxHealth"`
	Score         int     `json:"score" msgpack:"score"`
	Level         int     `json:"level" msgpack:"level"`
	XP            int     `json:"xp" msgpack:"xp"`
	XPToNext      int     `json:"xpToNext" msgpack:"xpToNext"`
	Stats         Stats   `json:"stats" msgpack:"stats"`
	UpgradePoints int     `json:"upgradePoints" msgpack:"upgradePoints"`

	LastShotTime      time.Time `json:"-" msgpack:"-"`
	LastContactDamage time.Time `json:"-" msgpack:"-"`
}

// Alive reports whether the player still has health left
func (p *Player) Alive() bool {
	return p.Health > 0
}

// Projectile is a bullet fired by a player
type Projectile struct {
	ID uint32 `json:"id" msgpack:"id"`
	Body
	Damage   float64 `json:"damage" msgpack:"damage"`
	Lifetime float64 `json:"lifetime" msgpack:"lifetime"` // Seconds left

	consumed bool
}

// Consumed reports whether the projectile already hit something this tick
func (p *Projectile) Consumed() bool {
	return p.consumed
}

// Shape is a destructible polygon owned by the ShapeRegistry
type Shape struct {
	ID uint32 `json:"id" msgpack:"id"`
	Body
	Archetype     string  `json:"archetype" msgpack:"archetype"`
	Sides         int     `json:"sides" msgpack:"sides"`
	Rarity        string  `json:"rarity" msgpack:"rarity"`
	Health        float64 `json:"health" msgpack:"health"`
	MaxHealth     float64 `json:"maxHealth" msgpack:"maxHealth"`
	XPReward      int     `json:"xpReward" msgpack:"xpReward"`
	Damage        float64 `json:"damage" msgpack:"damage"` // Contact damage before the rarity multiplier
	Color         string  `json:"color" msgpack:"color"`
	MaxSpeed      float64 `json:"-" msgpack:"-"`
	Angle         float64 `json:"angle" msgpack:"angle"`
	RotationSpeed float64 `json:"rotationSpeed" msgpack:"rotationSpeed"`
}

// Destroyed reports whether the shape has no health left
func (s *Shape) Destroyed() bool {
	return s.Health <= 0
}

// ParticleEffect flags are resolved once when a particle is created
type ParticleEffect uint8

const (
	EffectTrail ParticleEffect = 1 << iota
	EffectSpiral
	EffectSparkle
)

// Has reports whether every flag in f is set
func (e ParticleEffect) Has(f ParticleEffect) bool {
	return e&f == f
}

// Particle is a cosmetic fragment with a fading lifetime in [0,1]
type Particle struct {
	Body
	Color    string         `json:"color" msgpack:"color"`
	Lifetime float64        `json:"lifetime" msgpack:"lifetime"`
	FadeRate float64        `json:"-" msgpack:"-"`
	Effects  ParticleEffect `json:"effects" msgpack:"effects"`
}
