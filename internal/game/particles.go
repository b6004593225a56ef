package game

import (
	"math"

	"polyarena/internal/config"
)

// effectsForRarity picks the cosmetic flags a rarity tier's debris carries
func effectsForRarity(rarity string) ParticleEffect {
	switch rarity {
	case "shiny":
		return EffectSparkle
	case "legendary":
		return EffectSparkle | EffectTrail
	case "shadow":
		return EffectTrail
	case "rainbow":
		return EffectSparkle | EffectTrail | EffectSpiral
	default:
		return 0
	}
}

// burst emits count particles radiating from pos with random headings and speeds
func burst(cfg config.ParticlesConfig, rng RNG, pos Vec2, color string, count int, effects ParticleEffect) []*Particle {
	particles := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := cfg.Speed * (0.5 + rng.Float64()*0.5)
		particles = append(particles, &Particle{
			Body: Body{
				Pos:    pos,
				Vel:    FromAngle(angle, speed),
				Radius: cfg.Size * (0.5 + rng.Float64()),
			},
			Color:    color,
			Lifetime: 1,
			FadeRate: cfg.FadeRate * (0.75 + rng.Float64()*0.5),
			Effects:  effects,
		})
	}
	return particles
}
