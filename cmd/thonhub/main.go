// Command thonhub is the terminal client for the ThonHub hackathon platform.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/thonhub/thonhub/internal/client/cli"
	"github.com/thonhub/thonhub/internal/client/config"
	"github.com/thonhub/thonhub/internal/logging"
)

func main() {

	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, false)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
