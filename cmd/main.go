package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"

	"github.com/minischetti/meal-planner-api/cmd/config"
	migration "github.com/minischetti/meal-planner-api/cmd/database/migrate"
	"github.com/minischetti/meal-planner-api/internal/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	migrate := flag.Bool("migrate", false, "create the postgres documents table and exit")
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if *migrate {
		db, err := config.ConnectDB(cfg)
		if err != nil {
			log.Fatalf("error connecting to database: %v", err)
		}
		if err := migration.Migrate(db); err != nil {
			log.Fatalf("error migrating database: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := config.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("error creating app: %v", err)
	}
	defer cleanup()

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Errorw("error shutting down", "error", err)
		}
	}()

	log.Infow("starting server", "port", cfg.AppPort, "store", cfg.StoreDriver, "identity", cfg.IdentityProvider)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Errorw("server stopped", "error", err)
	}
}
