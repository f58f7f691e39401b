package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/minischetti/meal-planner-api/internal/api/handlers"
	"github.com/minischetti/meal-planner-api/internal/api/routes"
	"github.com/minischetti/meal-planner-api/internal/middleware"
	"github.com/minischetti/meal-planner-api/internal/utils"
	"github.com/minischetti/meal-planner-api/internal/utils/mailing"
	"github.com/minischetti/meal-planner-api/internal/utils/storage"
	"github.com/minischetti/meal-planner-api/pkg/account"
	"github.com/minischetti/meal-planner-api/pkg/group"
	"github.com/minischetti/meal-planner-api/pkg/jwt"
	"github.com/minischetti/meal-planner-api/pkg/people"
	"github.com/minischetti/meal-planner-api/pkg/permission"
	"github.com/minischetti/meal-planner-api/pkg/plan"
	"github.com/minischetti/meal-planner-api/pkg/recipe"
	"github.com/minischetti/meal-planner-api/pkg/store"
)

// NewApp wires the store, services and handlers. The returned func releases the store and the
// log file.
func NewApp(ctx context.Context, cfg utils.Config) (*fiber.App, func(), error) {
	var closers []io.Closer
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.Errorw("error closing resource", "error", err)
			}
		}
	}

	validator := utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName: "meal-planner-api",
	})

	// setting up logging and limiter
	var output io.Writer = os.Stdout
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), os.ModePerm); err != nil {
			return nil, nil, fmt.Errorf("config: creating log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, fmt.Errorf("config: opening log file: %w", err)
		}
		closers = append(closers, file)
		output = file
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     output,
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: 1 * time.Second,
		}))
	}

	fbApp := sync.OnceValues(func() (*firebase.App, error) {
		return NewFirebaseApp(ctx, cfg)
	})

	st, err := ConnectStore(ctx, cfg, fbApp)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, st)

	// utils
	s3, err := storage.NewAwsS3(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig(cfg))

	provider, err := newIdentityProvider(ctx, cfg, st, fbApp)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	// Repository
	peopleRepository := people.NewPeopleRepository(st)
	recipeRepository := recipe.NewRecipeRepository(st)
	groupRepository := group.NewGroupRepository(st)
	planRepository := plan.NewPlanRepository(st)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret)
	accountService := account.NewAccountService(provider, jwtService)
	peopleService := people.NewPeopleService(peopleRepository, st)
	recipeService := recipe.NewRecipeService(recipeRepository, permission.RoleEditor{}, s3)
	groupService := group.NewGroupService(groupRepository, mailer, cfg.AppURL)
	planService := plan.NewPlanService(planRepository)

	// Handler
	accountHandler := handlers.NewAccountHandler(accountService, validator)
	peopleHandler := handlers.NewPeopleHandler(peopleService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	groupHandler := handlers.NewGroupHandler(groupService, validator)
	planHandler := handlers.NewPlanHandler(planService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		AccountHandler: accountHandler,
		PeopleHandler:  peopleHandler,
		RecipeHandler:  recipeHandler,
		GroupHandler:   groupHandler,
		PlanHandler:    planHandler,
		Middleware:     middleware.NewMiddleware(cfg.CORSAllowOrigin, accountService),
		JWTService:     jwtService,
		RequireAuth:    cfg.RequireAuth,
	}
	routesConfig.Setup()
	return app, cleanup, nil
}

func newIdentityProvider(ctx context.Context, cfg utils.Config, st store.Store, fbApp func() (*firebase.App, error)) (account.Provider, error) {
	switch cfg.IdentityProvider {
	case "firebase":
		app, err := fbApp()
		if err != nil {
			return nil, err
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("config: creating firebase auth client: %w", err)
		}
		return account.NewFirebaseProvider(ctx, client, cfg.FirebaseAPIKey)
	case "local", "":
		return account.NewLocalProvider(st), nil
	default:
		return nil, fmt.Errorf("config: unknown IDENTITY_PROVIDER %q", cfg.IdentityProvider)
	}
}
