package game

import (
	"math"
	"time"

	"polyarena/internal/config"
)

// CombatController owns the player and the projectiles it fires
type CombatController struct {
	player       config.PlayerConfig
	bullet       config.BulletConfig
	upgrades     config.UpgradesConfig
	world        Bounds
	p            *Player
	projectiles  []*Projectile
	projectileID uint32
}

// NewCombatController creates a controller with a freshly spawned player
func NewCombatController(cfg *config.Config) *CombatController {
	c := &CombatController{
		player:       cfg.Player,
		bullet:       cfg.Bullet,
		upgrades:     cfg.Upgrades,
		world:        Bounds{Width: cfg.World.Width, Height: cfg.World.Height},
		p:            &Player{},
		projectileID: 1,
	}
	c.ResetPlayer()
	return c
}

// Player returns the controlled player
func (c *CombatController) Player() *Player {
	return c.p
}

// Projectiles returns the live projectiles in firing order
func (c *CombatController) Projectiles() []*Projectile {
	return c.projectiles
}

// ResetPlayer restores the spawn defaults at the world centre
func (c *CombatController) ResetPlayer() {
	*c.p = Player{
		Body: Body{
			Pos:    Vec2{X: c.world.Width / 2, Y: c.world.Height / 2},
			Radius: c.player.Radius,
		},
		Health:    c.player.MaxHealth,
		MaxHealth: c.player.MaxHealth,
		Level:     1,
		XPToNext:  c.player.XPPerLevel,
		Stats:     BaseStats(),
	}
}

// UpdateMovement moves the player along the held keys and clamps it into the world
func (c *CombatController) UpdateMovement(keys MovementFlags, dt float64) {
	var dir Vec2
	if keys.Up {
		dir.Y--
	}
	if keys.Down {
		dir.Y++
	}
	if keys.Left {
		dir.X--
	}
	if keys.Right {
		dir.X++
	}
	if l := dir.Len(); l > 0 {
		dir = dir.Scale(1 / l)
	}

	speed := c.player.BaseSpeed * c.p.Stats.Speed
	c.p.Pos = c.p.Pos.Add(dir.Scale(speed * dt)).Add(c.p.Vel.Scale(dt))
	c.p.Vel = c.p.Vel.Scale(c.player.Friction)
	c.p.Pos = c.world.Clamp(c.p.Pos, c.p.Radius)
}

// UpdateAim points the barrel at the pointer, with no smoothing
func (c *CombatController) UpdateAim(pointer Vec2) {
	d := pointer.Sub(c.p.Pos)
	if d.X == 0 && d.Y == 0 {
		return
	}
	c.p.Angle = math.Atan2(d.Y, d.X)
}

// FireInterval is the minimum gap between shots at the current reload stat
func (c *CombatController) FireInterval() time.Duration {
	ms := c.bullet.FireIntervalMS / c.p.Stats.Reload
	return time.Duration(ms * float64(time.Millisecond))
}

// CanFire checks if the barrel is ready based on reload time
func (c *CombatController) CanFire(now time.Time) bool {
	if c.p.LastShotTime.IsZero() {
		return true
	}
	return now.Sub(c.p.LastShotTime) >= c.FireInterval()
}

// TryShoot fires one projectile from the barrel tip when reloaded
func (c *CombatController) TryShoot(now time.Time) *Projectile {
	if !c.p.Alive() || !c.CanFire(now) {
		return nil
	}

	tip := c.p.Pos.Add(FromAngle(c.p.Angle, c.p.Radius+c.bullet.BarrelLength))
	projectile := &Projectile{
		ID: c.projectileID,
		Body: Body{
			Pos:    tip,
			Vel:    FromAngle(c.p.Angle, c.bullet.Speed*c.p.Stats.BulletSpeed),
			Radius: c.bullet.Size,
		},
		Damage:   c.bullet.Damage * c.p.Stats.Damage,
		Lifetime: c.bullet.Lifetime,
	}
	c.projectileID++
	c.projectiles = append(c.projectiles, projectile)

	c.p.Vel = c.p.Vel.Sub(FromAngle(c.p.Angle, c.bullet.Recoil))
	c.p.LastShotTime = now
	return projectile
}

// UpdateProjectiles moves every projectile and drops the expired or escaped ones
func (c *CombatController) UpdateProjectiles(dt float64) {
	alive := c.projectiles[:0]
	for _, p := range c.projectiles {
		if Integrate(&p.Body, &p.Lifetime, ProjectileMotion, dt) && c.world.Contains(p.Pos) {
			alive = append(alive, p)
		}
	}
	clear(c.projectiles[len(alive):])
	c.projectiles = alive
}

// RemoveConsumed drops the projectiles that hit a shape
func (c *CombatController) RemoveConsumed() {
	alive := c.projectiles[:0]
	for _, p := range c.projectiles {
		if !p.consumed {
			alive = append(alive, p)
		}
	}
	clear(c.projectiles[len(alive):])
	c.projectiles = alive
}

// ClearProjectiles removes every projectile
func (c *CombatController) ClearProjectiles() {
	clear(c.projectiles)
	c.projectiles = c.projectiles[:0]
}

// Regen restores health at the regen rate, never above max
func (c *CombatController) Regen(dt float64) {
	if !c.p.Alive() {
		return
	}
	c.p.Health = min(c.p.MaxHealth, c.p.Health+c.player.RegenRate*c.p.Stats.Regen*dt)
}

// AwardXP adds experience and resolves every level gained, one upgrade point each.
// It returns the levels reached, in order.
func (c *CombatController) AwardXP(amount int) []int {
	if amount <= 0 {
		return nil
	}

	var levels []int
	c.p.XP += amount
	for c.p.XP >= c.p.XPToNext {
		c.p.XP -= c.p.XPToNext
		c.p.Level++
		c.p.XPToNext = c.player.XPPerLevel * c.p.Level
		c.p.UpgradePoints++
		levels = append(levels, c.p.Level)
	}
	return levels
}
