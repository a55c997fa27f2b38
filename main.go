package main

import (
	"context"
	"log"

	"cancerscope/internal"
	"cancerscope/internal/config"
	"cancerscope/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	// A bad data file falls back to demo data unless data.fallback_to_demo is off
	if _, err := appContainer.LoadConfiguredData(context.Background()); err != nil {
		log.Fatalf("Failed to load data file: %v", err)
	}

	server, err := appContainer.NewServer()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	logger.Info("Starting cancerscope server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
