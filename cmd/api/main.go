package main

import (
	"log"

	"cookiegallery/config"
	"cookiegallery/internal/app"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
