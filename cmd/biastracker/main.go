package main

import (
	"log"

	"github.com/devpouya/swiss-media-bias-tracker/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("biastracker: %v", err)
	}
}
