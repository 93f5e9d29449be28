package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/redcell/bloodinv/internal/config"
	"github.com/redcell/bloodinv/internal/db"
	"github.com/redcell/bloodinv/internal/etl"
	"github.com/redcell/bloodinv/internal/generate"
	"github.com/redcell/bloodinv/internal/logging"
	"github.com/redcell/bloodinv/internal/service"
	"github.com/redcell/bloodinv/internal/store"
	"github.com/redcell/bloodinv/internal/web"
	"github.com/redcell/bloodinv/internal/web/templates"
)

const usage = `usage: bloodinv <command> [flags]

commands:
  generate   write randomized donor, donation, and request CSVs
  load       load the CSVs into the SQLite store and derive inventory
  serve      serve the inventory dashboard
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	var runErr error
	switch os.Args[1] {
	case "generate":
		runErr = runGenerate(os.Args[2:], cfg, logger)
	case "load":
		runErr = runLoad(os.Args[2:], cfg, logger)
	case "serve":
		runErr = runServe(os.Args[2:], cfg, logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		cleanup()
		os.Exit(2)
	}

	if runErr != nil {
		logger.Error(os.Args[1]+" failed", "error", runErr)
		cleanup()
		os.Exit(1)
	}
}

func runGenerate(args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	dataDir := fs.String("data", cfg.DataDir, "output directory for CSV files")
	donors := fs.Int("donors", cfg.Donors, "number of donors to generate")
	donations := fs.Int("donations", cfg.Donations, "number of donations to generate")
	requests := fs.Int("requests", cfg.Requests, "number of hospital requests to generate")
	seed := fs.Int64("seed", cfg.Seed, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := generate.New(generate.Config{
		Donors:    *donors,
		Donations: *donations,
		Requests:  *requests,
		Seed:      *seed,
		DataDir:   *dataDir,
	})
	if err != nil {
		return err
	}

	ds, err := g.Run()
	if err != nil {
		return err
	}

	logger.Info("mock data generated",
		"dir", *dataDir,
		"donors", len(ds.Donors),
		"donations", len(ds.Donations),
		"requests", len(ds.Requests),
	)
	return nil
}

func runLoad(args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	dataDir := fs.String("data", cfg.DataDir, "directory containing the CSV files")
	dbPath := fs.String("db", cfg.DBPath, "path to the SQLite database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	_, err = etl.NewPipeline(*dataDir, database, logger).Run(context.Background())
	return err
}

func runServe(args []string, cfg *config.Config, logger *slog.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "path to the SQLite database")
	addr := fs.String("addr", cfg.ListenAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	database, err := db.OpenReadOnly(*dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	svc := service.NewDashboardService(store.NewDashboardStore(database), logger)
	server := web.NewServer(svc, templates.FS, logger)
	return server.ListenAndServe(*addr)
}
