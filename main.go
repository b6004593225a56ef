package main

import (
	"flag"
	"log"

	"polyarena/internal/config"
	"polyarena/internal/server"
)

func main() {
	configDir := flag.String("config", ".", "directory holding arena.json")
	envFile := flag.String("env", ".env", "dotenv file loaded before ARENA_* overrides")
	flag.Parse()

	if err := config.LoadEnvFiles(*envFile); err != nil {
		log.Fatal("Failed to load env file:", err)
	}

	cfg, err := config.NewLoader(*configDir).Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		log.Fatal("Invalid environment overrides:", err)
	}

	srv := server.NewServer(cfg)

	log.Println("Starting polyarena server...")
	if err := srv.Start(); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
