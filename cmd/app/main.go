package main

import (
	"context"
	"log"

	"github.com/VladKovDev/botconstructor/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; config falls back to real env vars.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application failed: %v", err)
	}
}
