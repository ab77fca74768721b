package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"healthdash/adapters/llm"
	"healthdash/adapters/postgres"
	"healthdash/adapters/stats/engine"
	"healthdash/app"
	"healthdash/internal/config"
	"healthdash/internal/errors"
	"healthdash/internal/narrative"
	"healthdash/internal/staticdata"
	"healthdash/ui"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Static lookup tables, loaded once; missing files degrade gracefully.
	blocked := staticdata.LoadBlockedDistricts(appConfig.Data.BlockedDistrictsFile)
	scales := staticdata.LoadScaleTable(appConfig.Data.GraphScalesFile)

	dataGateway := postgres.NewDataGateway(db, blocked)
	catalogGateway := postgres.NewCatalogGateway(db)

	dashboard := app.NewDashboardService(
		engine.NewAggregationEngine(dataGateway),
		engine.NewCorrelationEngine(dataGateway),
	)

	narrator := llm.NewOllamaClient(
		appConfig.Narrator.BaseURL,
		appConfig.Narrator.Model,
		appConfig.Narrator.Timeout,
	)
	validator := narrative.NewValidator(narrative.QualityConfig{
		MinLength:     appConfig.Narrative.MinLength,
		MarkerWord:    "indicator",
		MarkerWordMax: appConfig.Narrative.MarkerWordMax,
		Denylist:      narrative.DefaultQualityConfig().Denylist,
		MaxFailures:   appConfig.Narrative.MaxFailures,
	})
	summaries := app.NewSummaryService(dashboard, narrator, validator, appConfig.Narrator)

	server := ui.NewApp(dashboard, summaries, catalogGateway, dataGateway, scales)
	if err := server.Start(appConfig.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
