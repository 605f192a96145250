package main

import (
	"context"
	"log"
	"os"

	"github.com/parts-pile/valuator/config"
	"github.com/parts-pile/valuator/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("VALUATOR_CONFIG"))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if err := server.Run(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
