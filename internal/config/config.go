package config

import (
	"errors"
	"fmt"
)

// Config is the full tuning for a server and every simulation it hosts.
// It is read-only once a simulation has been built from it.
type Config struct {
	Server    ServerConfig    `json:"server"`
	World     WorldConfig     `json:"world"`
	Player    PlayerConfig    `json:"player"`
	Bullet    BulletConfig    `json:"bullet"`
	Shapes    ShapesConfig    `json:"shapes"`
	Particles ParticlesConfig `json:"particles"`
	Upgrades  UpgradesConfig  `json:"upgrades"`
}

// ServerConfig holds the network surface settings
type ServerConfig struct {
	Addr        string `json:"addr"`
	StaticDir   string `json:"staticDir"`
	TickRate    int    `json:"tickRate"`    // Simulation ticks per second
	MaxSessions int    `json:"maxSessions"` // Concurrent sessions, one simulation each
	Debug       bool   `json:"debug"`       // Enables the force-spawn command
}

// WorldConfig holds the arena dimensions
type WorldConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// MaxTickDelta clamps the per-tick dt in seconds. Zero leaves dt unclamped.
	MaxTickDelta float64 `json:"maxTickDelta"`
}

// PlayerConfig holds the tank defaults restored on every reset
type PlayerConfig struct {
	Radius    float64 `json:"radius"`
	BaseSpeed float64 `json:"baseSpeed"` // Units per second
	MaxHealth float64 `json:"maxHealth"`
	RegenRate float64 `json:"regenRate"` // Health per second before stats.regen
	// Friction is the per-tick decay applied to recoil and knockback velocity.
	Friction   float64 `json:"friction"`
	XPPerLevel int     `json:"xpPerLevel"`
	// ContactDamageCooldown is the minimum gap in seconds between two contact
	// damage applications. Zero applies contact damage on every tick.
	ContactDamageCooldown float64 `json:"contactDamageCooldown"`
	Knockback             float64 `json:"knockback"` // Push-back impulse before the rarity multiplier
}

// BulletConfig holds the base projectile stats before player multipliers
type BulletConfig struct {
	Speed          float64 `json:"speed"`
	Damage         float64 `json:"damage"`
	Size           float64 `json:"size"`
	Lifetime       float64 `json:"lifetime"`       // Seconds
	FireIntervalMS float64 `json:"fireIntervalMs"` // Milliseconds between shots at reload 1.0
	BarrelLength   float64 `json:"barrelLength"`
	Recoil         float64 `json:"recoil"`
}

// Archetype is a named shape category with fixed base stats
type Archetype struct {
	Name   string  `json:"name"`
	Sides  int     `json:"sides"`
	Size   float64 `json:"size"`
	Health float64 `json:"health"`
	XP     int     `json:"xp"`
	Color  string  `json:"color"`
	Speed  float64 `json:"speed"` // Speed cap, units per second
	Damage float64 `json:"damage"`
	Weight float64 `json:"weight"` // Relative spawn weight
}

// Rarity is a spawn tier applied on top of any archetype
type Rarity struct {
	Name string `json:"name"`
	// Chance is the absolute spawn probability. The first tier takes whatever
	// probability the others leave over.
	Chance              float64 `json:"chance"`
	Color               string  `json:"color"`
	SizeMultiplier      float64 `json:"sizeMultiplier"`
	HealthMultiplier    float64 `json:"healthMultiplier"`
	XPMultiplier        float64 `json:"xpMultiplier"`
	DamageMultiplier    float64 `json:"damageMultiplier"`
	KnockbackMultiplier float64 `json:"knockbackMultiplier"`
}

// ShapesConfig holds spawning and population settings
type ShapesConfig struct {
	MaxShapes        int         `json:"maxShapes"`
	InitialShapes    int         `json:"initialShapes"`
	SpawnInterval    float64     `json:"spawnInterval"` // Seconds between spawn attempts
	MinSafeDistance  float64     `json:"minSafeDistance"`
	SpawnAttempts    int         `json:"spawnAttempts"`
	SpacingMargin    float64     `json:"spacingMargin"`
	ResteerChance    float64     `json:"resteerChance"` // Per-tick probability of a fresh random heading
	MaxRotationSpeed float64     `json:"maxRotationSpeed"`
	DefaultArchetype string      `json:"defaultArchetype"`
	Archetypes       []Archetype `json:"archetypes"`
	Rarities         []Rarity    `json:"rarities"`
}

// ParticlesConfig holds the cosmetic particle pool settings
type ParticlesConfig struct {
	MaxParticles int     `json:"maxParticles"`
	Damping      float64 `json:"damping"`  // Per-tick velocity factor
	FadeRate     float64 `json:"fadeRate"` // Lifetime lost per second
	Speed        float64 `json:"speed"`
	Size         float64 `json:"size"`
	BurstCount   int     `json:"burstCount"` // Particles emitted when a shape is destroyed
	HitCount     int     `json:"hitCount"`   // Particles emitted on a non-lethal hit
}

// UpgradesConfig holds the per-stat multiplicative factors
type UpgradesConfig struct {
	Damage      float64 `json:"damage"`
	Reload      float64 `json:"reload"`
	Speed       float64 `json:"speed"`
	Regen       float64 `json:"regen"`
	BulletSpeed float64 `json:"bulletSpeed"`
	HealthBonus float64 `json:"healthBonus"` // Flat, added to current and max health
}

// Default returns the canonical configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			StaticDir:   "./static",
			TickRate:    60,
			MaxSessions: 64,
		},
		World: WorldConfig{
			Width:  4000,
			Height: 4000,
		},
		Player: PlayerConfig{
			Radius:     25,
			BaseSpeed:  250,
			MaxHealth:  100,
			RegenRate:  1,
			Friction:   0.9,
			XPPerLevel: 100,
			Knockback:  120,
		},
		Bullet: BulletConfig{
			Speed:          600,
			Damage:         10,
			Size:           8,
			Lifetime:       2,
			FireIntervalMS: 500,
			BarrelLength:   20,
			Recoil:         15,
		},
		Shapes: ShapesConfig{
			MaxShapes:        250,
			InitialShapes:    120,
			SpawnInterval:    0.5,
			MinSafeDistance:  300,
			SpawnAttempts:    50,
			SpacingMargin:    20,
			ResteerChance:    0.01,
			MaxRotationSpeed: 1.5,
			DefaultArchetype: "square",
			Archetypes: []Archetype{
				{Name: "triangle", Sides: 3, Size: 18, Health: 20, XP: 10, Color: "#FC7677", Speed: 30, Damage: 5, Weight: 40},
				{Name: "square", Sides: 4, Size: 22, Health: 40, XP: 25, Color: "#FFE869", Speed: 25, Damage: 8, Weight: 30},
				{Name: "pentagon", Sides: 5, Size: 30, Health: 100, XP: 100, Color: "#768DFC", Speed: 18, Damage: 12, Weight: 20},
				{Name: "hexagon", Sides: 6, Size: 40, Health: 250, XP: 300, Color: "#B58EFD", Speed: 12, Damage: 18, Weight: 10},
			},
			Rarities: []Rarity{
				{Name: "normal", Color: "", SizeMultiplier: 1, HealthMultiplier: 1, XPMultiplier: 1, DamageMultiplier: 1, KnockbackMultiplier: 1},
				{Name: "shiny", Chance: 1.0 / 1000, Color: "#8AFF80", SizeMultiplier: 1.2, HealthMultiplier: 5, XPMultiplier: 10, DamageMultiplier: 1.5, KnockbackMultiplier: 1.5},
				{Name: "legendary", Chance: 1.0 / 10000, Color: "#FFB347", SizeMultiplier: 1.5, HealthMultiplier: 20, XPMultiplier: 50, DamageMultiplier: 2, KnockbackMultiplier: 2},
				{Name: "shadow", Chance: 1.0 / 25000, Color: "#2B2B2B", SizeMultiplier: 1.8, HealthMultiplier: 50, XPMultiplier: 150, DamageMultiplier: 3, KnockbackMultiplier: 2.5},
				{Name: "rainbow", Chance: 1.0 / 50000, Color: "#FF00FF", SizeMultiplier: 2.2, HealthMultiplier: 100, XPMultiplier: 500, DamageMultiplier: 4, KnockbackMultiplier: 3},
			},
		},
		Particles: ParticlesConfig{
			MaxParticles: 500,
			Damping:      0.98,
			FadeRate:     1.5,
			Speed:        120,
			Size:         3,
			BurstCount:   12,
			HitCount:     3,
		},
		Upgrades: UpgradesConfig{
			Damage:      1.25,
			Reload:      1.2,
			Speed:       1.1,
			Regen:       1.5,
			BulletSpeed: 1.15,
			HealthBonus: 20,
		},
	}
}

// Validate reports every field that would break the simulation
func (c *Config) Validate() error {
	var errs []error

	if c.Server.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("server.tickRate must be positive, got %d", c.Server.TickRate))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("server.maxSessions must be positive, got %d", c.Server.MaxSessions))
	}
	if c.World.Width <= 2*c.Player.Radius || c.World.Height <= 2*c.Player.Radius {
		errs = append(errs, fmt.Errorf("world %gx%g is too small for player radius %g", c.World.Width, c.World.Height, c.Player.Radius))
	}
	if c.World.MaxTickDelta < 0 {
		errs = append(errs, fmt.Errorf("world.maxTickDelta must not be negative"))
	}
	if c.Player.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("player.maxHealth must be positive"))
	}
	if c.Player.XPPerLevel <= 0 {
		errs = append(errs, fmt.Errorf("player.xpPerLevel must be positive"))
	}
	if c.Bullet.FireIntervalMS < 0 {
		errs = append(errs, fmt.Errorf("bullet.fireIntervalMs must not be negative"))
	}
	if c.Shapes.MaxShapes < 0 {
		errs = append(errs, fmt.Errorf("shapes.maxShapes must not be negative"))
	}
	if c.Particles.MaxParticles < 0 {
		errs = append(errs, fmt.Errorf("particles.maxParticles must not be negative"))
	}
	if len(c.Shapes.Archetypes) == 0 {
		errs = append(errs, errors.New("shapes.archetypes must not be empty"))
	}

	var totalWeight float64
	for _, a := range c.Shapes.Archetypes {
		if a.Name == "" {
			errs = append(errs, errors.New("shape archetype with empty name"))
		}
		if a.Weight < 0 {
			errs = append(errs, fmt.Errorf("archetype %s has negative weight", a.Name))
		}
		totalWeight += a.Weight
	}
	if len(c.Shapes.Archetypes) > 0 && totalWeight <= 0 {
		errs = append(errs, errors.New("archetype weights must sum to a positive value"))
	}

	if len(c.Shapes.Rarities) == 0 {
		errs = append(errs, errors.New("shapes.rarities must not be empty"))
	}
	var totalChance float64
	for _, r := range c.Shapes.Rarities[min(1, len(c.Shapes.Rarities)):] {
		if r.Chance < 0 {
			errs = append(errs, fmt.Errorf("rarity %s has negative chance", r.Name))
		}
		totalChance += r.Chance
	}
	if totalChance > 1 {
		errs = append(errs, fmt.Errorf("rarity chances sum to %g, above 1", totalChance))
	}

	return errors.Join(errs...)
}
