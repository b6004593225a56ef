package game

import (
	"math"
	"time"

	"polyarena/internal/config"
)

// CollisionKind tells the two collision passes apart
type CollisionKind string

const (
	CollisionProjectileShape CollisionKind = "projectile_shape"
	CollisionPlayerShape     CollisionKind = "player_shape"
)

// CollisionEvent is a detected overlap that has not been applied yet
type CollisionEvent struct {
	Kind       CollisionKind
	Projectile *Projectile
	Shape      *Shape
	Player     *Player
}

// CollisionResult is what applying a CollisionEvent did
type CollisionResult struct {
	Kind       CollisionKind
	Destroyed  bool
	Damage     float64
	XPAwarded  int
	Rarity     string
	Shape      *Shape
	Player     *Player
	Projectile *Projectile
}

// CollisionEngine detects circle overlaps and applies their damage
type CollisionEngine struct {
	rarities        map[string]config.Rarity
	knockback       float64
	contactCooldown time.Duration
	rng             RNG
}

// NewCollisionEngine builds an engine from the shape rarity table and player tuning
func NewCollisionEngine(shapes config.ShapesConfig, player config.PlayerConfig, rng RNG) *CollisionEngine {
	rarities := make(map[string]config.Rarity, len(shapes.Rarities))
	for _, r := range shapes.Rarities {
		rarities[r.Name] = r
	}
	return &CollisionEngine{
		rarities:        rarities,
		knockback:       player.Knockback,
		contactCooldown: time.Duration(player.ContactDamageCooldown * float64(time.Second)),
		rng:             rng,
	}
}

// Detect lists every collision in the current positions without applying any.
// It only reads state. Each projectile matches at most the first overlapping
// live shape in shapes order. A nil player skips the contact pass.
func (e *CollisionEngine) Detect(projectiles []*Projectile, shapes []*Shape, player *Player) []CollisionEvent {
	var events []CollisionEvent

	for _, p := range projectiles {
		if p.consumed {
			continue
		}
		if s := firstHit(p, shapes); s != nil {
			events = append(events, CollisionEvent{Kind: CollisionProjectileShape, Projectile: p, Shape: s})
		}
	}

	if player != nil && player.Alive() {
		for _, s := range shapes {
			if !s.Destroyed() && Overlaps(player.Pos, player.Radius, s.Pos, s.Radius) {
				events = append(events, CollisionEvent{Kind: CollisionPlayerShape, Shape: s, Player: player})
			}
		}
	}

	return events
}

func firstHit(p *Projectile, shapes []*Shape) *Shape {
	for _, s := range shapes {
		if s.Destroyed() {
			continue
		}
		if Overlaps(p.Pos, p.Radius, s.Pos, s.Radius) {
			return s
		}
	}
	return nil
}

// Resolve applies one collision. now gates the contact damage cooldown.
func (e *CollisionEngine) Resolve(event CollisionEvent, now time.Time) CollisionResult {
	switch event.Kind {
	case CollisionProjectileShape:
		return e.resolveProjectileHit(event)
	case CollisionPlayerShape:
		return e.resolveContact(event, now)
	default:
		return CollisionResult{Kind: event.Kind}
	}
}

func (e *CollisionEngine) resolveProjectileHit(event CollisionEvent) CollisionResult {
	p, s := event.Projectile, event.Shape
	result := CollisionResult{
		Kind:       CollisionProjectileShape,
		Rarity:     s.Rarity,
		Shape:      s,
		Projectile: p,
	}

	// No pass-through: the projectile is spent on any hit
	p.consumed = true
	if s.Destroyed() {
		return result
	}

	s.Health -= p.Damage
	result.Damage = p.Damage
	if s.Destroyed() {
		result.Destroyed = true
		result.XPAwarded = s.XPReward
	}
	return result
}

func (e *CollisionEngine) resolveContact(event CollisionEvent, now time.Time) CollisionResult {
	player, s := event.Player, event.Shape
	rarity := e.rarity(s.Rarity)
	result := CollisionResult{
		Kind:   CollisionPlayerShape,
		Rarity: s.Rarity,
		Shape:  s,
		Player: player,
	}

	if e.contactReady(player, now) {
		damage := s.Damage * rarity.DamageMultiplier
		player.Health = max(player.Health-damage, 0)
		player.LastContactDamage = now
		result.Damage = damage
	}

	player.Vel = player.Vel.Add(e.pushDirection(s.Pos, player.Pos).Scale(e.knockback * rarity.KnockbackMultiplier))
	return result
}

func (e *CollisionEngine) contactReady(player *Player, now time.Time) bool {
	if e.contactCooldown <= 0 || player.LastContactDamage.IsZero() {
		return true
	}
	return now.Sub(player.LastContactDamage) >= e.contactCooldown
}

// pushDirection is the unit vector from the shape to the player
func (e *CollisionEngine) pushDirection(from, to Vec2) Vec2 {
	d := to.Sub(from)
	length := d.Len()
	if length == 0 {
		// Concentric bodies, push along a random heading
		return FromAngle(e.rng.Float64()*2*math.Pi, 1)
	}
	return d.Scale(1 / length)
}

func (e *CollisionEngine) rarity(name string) config.Rarity {
	if r, ok := e.rarities[name]; ok {
		return r
	}
	return config.Rarity{Name: name, DamageMultiplier: 1, KnockbackMultiplier: 1}
}

// Run performs the full collision step for one tick on top of Detect.
// Projectile hits are resolved and destroyed shapes removed before player
// contact is checked, so a shape destroyed this tick never deals contact damage.
func (e *CollisionEngine) Run(projectiles []*Projectile, shapes *ShapeRegistry, player *Player, now time.Time) []CollisionResult {
	var results []CollisionResult

	// One projectile at a time, so a later projectile sees shapes already destroyed
	for i := range projectiles {
		for _, event := range e.Detect(projectiles[i:i+1], shapes.Shapes(), nil) {
			results = append(results, e.Resolve(event, now))
		}
	}

	shapes.RemoveDestroyed()

	for _, event := range e.Detect(nil, shapes.Shapes(), player) {
		results = append(results, e.Resolve(event, now))
	}

	return results
}
