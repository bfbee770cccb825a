package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/graphenelabs/graphbot/core/bootstrap"
	"github.com/graphenelabs/graphbot/core/cmd"
	"github.com/graphenelabs/graphbot/internal/app"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("load config %s: %v", configPath, err)
	}

	cmd.Exit(bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	}, app.New(cfg))
}
