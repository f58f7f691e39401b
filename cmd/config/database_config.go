package config

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/gofiber/fiber/v2/log"
	"google.golang.org/api/option"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/minischetti/meal-planner-api/internal/utils"
	"github.com/minischetti/meal-planner-api/pkg/store"
	"github.com/minischetti/meal-planner-api/pkg/store/firestoredb"
	"github.com/minischetti/meal-planner-api/pkg/store/memory"
	"github.com/minischetti/meal-planner-api/pkg/store/postgres"
)

const (
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

func ConnectDB(cfg utils.Config) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(cfg.PostgresDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("config: connecting to postgres: %w", err)
	}
	return db, nil
}

// NewFirebaseApp uses FIREBASE_CREDENTIALS_FILE when set and application default credentials
// otherwise.
func NewFirebaseApp(ctx context.Context, cfg utils.Config) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("config: creating firebase app: %w", err)
	}
	return app, nil
}

// ConnectStore opens the document store selected by STORE_DRIVER.
func ConnectStore(ctx context.Context, cfg utils.Config, fbApp func() (*firebase.App, error)) (store.Store, error) {
	switch cfg.StoreDriver {
	case DriverFirestore:
		app, err := fbApp()
		if err != nil {
			return nil, err
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("config: creating firestore client: %w", err)
		}
		log.Infow("using firestore store", "project", cfg.FirebaseProjectID)
		return firestoredb.New(client), nil
	case DriverPostgres:
		db, err := ConnectDB(cfg)
		if err != nil {
			return nil, err
		}
		log.Infow("using postgres store", "host", cfg.DBHost, "database", cfg.DBName)
		return postgres.New(db), nil
	case DriverMemory, "":
		log.Warnw("using in-memory store, data is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
