package game

import (
	"polyarena/internal/config"
)

// SpawnTable picks shape archetypes and rarity tiers and places new shapes
type SpawnTable struct {
	archetypes       []config.Archetype
	rarities         []config.Rarity
	defaultArchetype config.Archetype
	totalWeight      float64
	margin           float64
	rng              RNG
}

// NewSpawnTable builds a table from the shape configuration
func NewSpawnTable(cfg config.ShapesConfig, rng RNG) *SpawnTable {
	t := &SpawnTable{
		archetypes: cfg.Archetypes,
		rarities:   cfg.Rarities,
		margin:     cfg.SpacingMargin,
		rng:        rng,
	}
	for _, a := range cfg.Archetypes {
		t.totalWeight += a.Weight
	}
	t.defaultArchetype = t.archetypes[0]
	for _, a := range cfg.Archetypes {
		if a.Name == cfg.DefaultArchetype {
			t.defaultArchetype = a
			break
		}
	}
	return t
}

// PickArchetype draws one archetype by cumulative weight
func (t *SpawnTable) PickArchetype() config.Archetype {
	r := t.rng.Float64() * t.totalWeight
	var acc float64
	for _, a := range t.archetypes {
		acc += a.Weight
		if r < acc {
			return a
		}
	}
	// Only reachable through float rounding at the top of the range
	return t.archetypes[len(t.archetypes)-1]
}

// PickRarity draws a rarity tier independently of the archetype.
// Tiers after the first hold absolute chances; the first takes the remainder.
func (t *SpawnTable) PickRarity() config.Rarity {
	r := t.rng.Float64()
	var acc float64
	for i := len(t.rarities) - 1; i > 0; i-- {
		acc += t.rarities[i].Chance
		if r < acc {
			return t.rarities[i]
		}
	}
	return t.rarities[0]
}

// Archetype looks up an archetype by name, falling back to the default one
func (t *SpawnTable) Archetype(name string) config.Archetype {
	for _, a := range t.archetypes {
		if a.Name == name {
			return a
		}
	}
	return t.defaultArchetype
}

// Rarity looks up a tier by name, falling back to the common tier
func (t *SpawnTable) Rarity(name string) config.Rarity {
	for _, r := range t.rarities {
		if r.Name == name {
			return r
		}
	}
	return t.rarities[0]
}

// Archetypes returns the ordered archetype list
func (t *SpawnTable) Archetypes() []config.Archetype {
	return t.archetypes
}

// Rarities returns the ordered rarity list, most common first
func (t *SpawnTable) Rarities() []config.Rarity {
	return t.rarities
}

// FindSafePosition draws random positions for a shape of the given size until one
// is at least minDistance from the player and clear of every shape in others.
// After maxAttempts rejections the last candidate is returned anyway.
// The second result is the number of candidates drawn.
func (t *SpawnTable) FindSafePosition(world Bounds, player Vec2, minDistance float64, maxAttempts int, size float64, others []*Shape) (Vec2, int) {
	var candidate Vec2
	attempts := 0
	for {
		candidate = t.randomPosition(world, size)
		attempts++
		if t.isLocationSafe(candidate, player, minDistance, size, others) || attempts >= maxAttempts {
			return candidate, attempts
		}
	}
}

// isLocationSafe checks the candidate against the player and existing shapes
func (t *SpawnTable) isLocationSafe(p, player Vec2, minDistance, size float64, others []*Shape) bool {
	if Dist(p, player) < minDistance {
		return false
	}
	for _, other := range others {
		if Dist(p, other.Pos) < size+other.Radius+t.margin {
			return false
		}
	}
	return true
}

func (t *SpawnTable) randomPosition(world Bounds, inset float64) Vec2 {
	inset = min(inset, world.Width/2, world.Height/2)
	return Vec2{
		X: inset + t.rng.Float64()*(world.Width-2*inset),
		Y: inset + t.rng.Float64()*(world.Height-2*inset),
	}
}
