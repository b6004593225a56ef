package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognised by ApplyEnv
const (
	EnvAddr            = "ARENA_ADDR"
	EnvStaticDir       = "ARENA_STATIC_DIR"
	EnvTickRate        = "ARENA_TICK_RATE"
	EnvMaxSessions     = "ARENA_MAX_SESSIONS"
	EnvDebug           = "ARENA_DEBUG"
	EnvWorldWidth      = "ARENA_WORLD_WIDTH"
	EnvWorldHeight     = "ARENA_WORLD_HEIGHT"
	EnvMaxTickDelta    = "ARENA_MAX_TICK_DELTA"
	EnvMaxShapes       = "ARENA_MAX_SHAPES"
	EnvMaxParticles    = "ARENA_MAX_PARTICLES"
	EnvContactCooldown = "ARENA_CONTACT_COOLDOWN"
)

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are skipped; variables already set are not overwritten.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		log.Printf("Loaded environment variables from %s", path)
	}
	return nil
}

// ApplyEnv overrides cfg with any ARENA_* variable present in the environment
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
	float := func(key string, dst *float64) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = f
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}

	str(EnvAddr, &cfg.Server.Addr)
	str(EnvStaticDir, &cfg.Server.StaticDir)
	integer(EnvTickRate, &cfg.Server.TickRate)
	integer(EnvMaxSessions, &cfg.Server.MaxSessions)
	boolean(EnvDebug, &cfg.Server.Debug)
	float(EnvWorldWidth, &cfg.World.Width)
	float(EnvWorldHeight, &cfg.World.Height)
	float(EnvMaxTickDelta, &cfg.World.MaxTickDelta)
	integer(EnvMaxShapes, &cfg.Shapes.MaxShapes)
	integer(EnvMaxParticles, &cfg.Particles.MaxParticles)
	float(EnvContactCooldown, &cfg.Player.ContactDamageCooldown)

	if err := errors.Join(errs...); err != nil {
		return err
	}
	return cfg.Validate()
}
