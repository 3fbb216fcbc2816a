package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/cache"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/config"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/forecast"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/report"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/repository"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/repository/postgres"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/service"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/pkg/logger"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (defaults to the DB_* settings)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func newRestaurantFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "restaurant",
		Aliases:  []string{"r"},
		Usage:    "Restaurant id",
		Required: true,
	}
}

func initDB(c *cli.Context) error {
	cfg := config.Load()

	if url := c.String("db-url"); url != "" {
		sqlDB, err := sql.Open("pgx", url)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := sqlDB.PingContext(c.Context); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		db := postgres.Wrap(sqlx.NewDb(sqlDB, "pgx"), cfg.Database.MaxOpenConns, cfg.Database.MaxInFlight)
		c.Context = context.WithValue(c.Context, dbKey, db)
		return nil
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return err
	}
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

// newService builds an uncached inventory service over the command's connection.
func newService(c *cli.Context) (*service.InventoryService, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}

	cfg := config.Load()
	params := cfg.Inventory.Params()
	if lookback := c.Int("lookback-days"); lookback > 0 {
		params.LookbackDays = lookback
	}
	if level := c.Float64("service-level"); level > 0 {
		params.ServiceLevel = inventory.ServiceLevel(level)
	}

	calc, err := inventory.NewCalculator(params)
	if err != nil {
		return nil, err
	}

	horizon := cfg.Inventory.ForecastHorizonDays
	if h := c.Int("horizon"); h > 0 {
		horizon = h
	}

	return service.NewInventoryService(
		repository.NewInventoryRepository(db, cfg.Inventory.DefaultLeadTimeDays),
		forecast.NewPostgresProvider(db),
		calc,
		report.NewAnalyzer(calc, cfg.Inventory.ReportOptions()),
		cache.NewNoopReportCache(),
		horizon,
	), nil
}

func analysisFlags() []cli.Flag {
	return []cli.Flag{
		newDBURLFlag(),
		newRestaurantFlag(),
		&cli.IntFlag{Name: "horizon", Usage: "Forecast horizon in days"},
		&cli.IntFlag{Name: "lookback-days", Usage: "Consumption lookback window in days"},
		&cli.Float64Flag{Name: "service-level", Usage: "Target service level (one of 0.80, 0.85, 0.90, 0.95, 0.975, 0.98, 0.99, 0.995)"},
	}
}

func main() {
	cfg := config.Load()
	logger.Init("debug", cfg.Server.LogLevel)

	app := &cli.App{
		Name:  "inventoryctl",
		Usage: "Run inventory optimization reports from the command line",
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "Print the batch report of a restaurant as JSON",
				Flags: append(analysisFlags(),
					&cli.StringSliceFlag{Name: "items", Usage: "Restrict the report to these item ids"},
				),
				Before: initDB,
				After:  closeDB,
				Action: runReport,
			},
			{
				Name:  "export",
				Usage: "Write the batch report of a restaurant as an XLSX workbook",
				Flags: append(analysisFlags(),
					&cli.StringFlag{Name: "out", Usage: "Output file (defaults to inventory-report-<date>.xlsx)"},
					&cli.BoolFlag{Name: "upload", Usage: "Upload the workbook to object storage"},
				),
				Before: initDB,
				After:  closeDB,
				Action: runExport,
			},
			{
				Name:  "import-forecasts",
				Usage: "Load daily demand forecasts from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "file", Usage: "CSV with restaurant_id,item_id,forecast_date,predicted_quantity", Required: true},
				},
				Before: initDB,
				After:  closeDB,
				Action: runImportForecasts,
			},
			{
				Name:   "exports",
				Usage:  "List uploaded report exports of a restaurant",
				Flags:  []cli.Flag{newRestaurantFlag()},
				Action: runListExports,
			},
			{
				Name:  "fetch",
				Usage: "Download an uploaded report export",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Usage: "Object key", Required: true},
					&cli.StringFlag{Name: "out", Usage: "Destination file", Required: true},
				},
				Action: runFetch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("inventoryctl failed")
	}
}

func exportFileName(asOf time.Time) string {
	return fmt.Sprintf("inventory-report-%s.xlsx", asOf.UTC().Format("20060102"))
}
