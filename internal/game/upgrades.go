package game

// StatName names a player stat that upgrade points can be spent on
type StatName string

const (
	StatDamage      StatName = "damage"
	StatReload      StatName = "reload"
	StatSpeed       StatName = "speed"
	StatRegen       StatName = "regen"
	StatBulletSpeed StatName = "bulletSpeed"
	StatHealth      StatName = "health"
)

// AllStats lists the upgradeable stats in menu order
var AllStats = []StatName{StatDamage, StatReload, StatSpeed, StatRegen, StatBulletSpeed, StatHealth}

// ApplyUpgrade spends one upgrade point on stat. Unknown stats and an empty
// point balance are ignored. It reports whether a point was spent.
func (c *CombatController) ApplyUpgrade(stat StatName) bool {
	if c.p.UpgradePoints <= 0 {
		return false
	}

	stats := &c.p.Stats
	switch stat {
	case StatDamage:
		stats.Damage *= c.upgrades.Damage
	case StatReload:
		stats.Reload *= c.upgrades.Reload
	case StatSpeed:
		stats.Speed *= c.upgrades.Speed
	case StatRegen:
		stats.Regen *= c.upgrades.Regen
	case StatBulletSpeed:
		stats.BulletSpeed *= c.upgrades.BulletSpeed
	case StatHealth:
		c.p.MaxHealth += c.upgrades.HealthBonus
		c.p.Health += c.upgrades.HealthBonus
	default:
		return false
	}

	c.p.UpgradePoints--
	return true
}
