package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"stateflow/cmd"
	httpin "stateflow/internal/adapters/in/http"
	"stateflow/internal/adapters/out/postgres/catalogrepo"
	"stateflow/internal/adapters/out/postgres/entitystaterepo"
	"stateflow/internal/adapters/out/postgres/historyrepo"
	"stateflow/internal/core/domain/model/workflow"
	"stateflow/internal/jobs"
	"stateflow/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrateDB(gormDB)

	catalog := mustLoadCatalog(gormDB)
	collector := metrics.NewPrometheusCollector(prometheus.DefaultRegisterer)

	app := cmd.NewCompositionRoot(configs, gormDB, catalog, collector, logger)

	jobManager := jobs.NewJobManager(
		app.CreateRunAutomaticTransitionsCommandHandler(),
		configs.SweepSchedule,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:      goDotEnvVariable("HTTP_PORT"),
		DBHost:        goDotEnvVariable("DB_HOST"),
		DBPort:        goDotEnvVariable("DB_PORT"),
		DBUser:        goDotEnvVariable("DB_USER"),
		DBPassword:    goDotEnvVariable("DB_PASSWORD"),
		DBName:        goDotEnvVariable("DB_NAME"),
		DBSslMode:     goDotEnvVariable("DB_SSLMODE"),
		SweepSchedule: goDotEnvVariable("SWEEP_SCHEDULE"),
	}
	if config.SweepSchedule == "" {
		config.SweepSchedule = "0 * * * * *"
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode,
	)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func mustMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(
		&entitystaterepo.EntityStateDTO{},
		&historyrepo.HistoryRecordDTO{},
		&catalogrepo.StateDTO{},
		&catalogrepo.TransitionDTO{},
		&catalogrepo.StateMappingDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

// mustLoadCatalog builds the live catalog from the stored configuration.
// An empty database yields an empty catalog; administrative imports
// populate it at runtime.
func mustLoadCatalog(db *gorm.DB) *workflow.Catalog {
	cfg, err := catalogrepo.NewGormCatalogRepository(db).Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load catalog configuration: %v", err)
	}

	catalog, err := workflow.BuildCatalog(cfg)
	if err != nil {
		log.Fatalf("Stored catalog configuration is invalid: %v", err)
	}
	return catalog
}

func startWebServer(app cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateApplyTransitionCommandHandler(),
		app.CreateInitStateCommandHandler(),
		app.CreateRetireEntityStateCommandHandler(),
		app.CreateImportCatalogCommandHandler(),
		app.CreateGetCurrentStateQueryHandler(),
		app.CreateGetAllowedTransitionsQueryHandler(),
		app.CreateGetHistoryQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
