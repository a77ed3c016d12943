package main

import (
	"log"

	"github.com/MrSnakeDoc/flightscope/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ flightscope failed to start: %v", err)
	}
}
