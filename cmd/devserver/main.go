// Command devserver runs the in-memory ThonHub backend used to develop and
// exercise the terminal client.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/thonhub/thonhub/internal/server"
	"github.com/thonhub/thonhub/internal/server/config"
)

func main() {

	// .env is optional
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
