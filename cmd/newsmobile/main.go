package main

import (
	"log"

	"github.com/kochj23/NewsMobile/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
