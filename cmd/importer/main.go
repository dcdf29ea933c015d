package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"

	"techcalendar/config"
	"techcalendar/internal/importer"
	"techcalendar/internal/repository/postgres"
)

func main() {
	dir := flag.String("dir", "data_events", "directory containing YAML event files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := importer.NewImporter(postgres.NewEventRepository(db), logger).ImportDir(ctx, *dir)
	if err != nil {
		logger.Error("import failed", "err", err)
		os.Exit(1)
	}
	logger.Info("import finished", "imported", res.Imported, "skipped", res.Skipped, "failed", res.Failed)
}
