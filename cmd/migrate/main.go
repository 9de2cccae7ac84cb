// Command migrate applies the Postgres schema in migrations/0001_init.sql.
// There is no ent codegen step in this engine: the JSONB-payload-per-aggregate
// schema is hand-written SQL, applied idempotently via CREATE TABLE/INDEX IF
// NOT EXISTS rather than a migration-version ledger.
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/logger"
	"github.com/ariesone/dme-billing-engine/internal/postgres"
)

//go:embed migrations/0001_init.sql
var embeddedSchema embed.FS

func main() {
	dryRun := flag.Bool("dry-run", false, "print the schema SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	schema, err := embeddedSchema.ReadFile("migrations/0001_init.sql")
	if err != nil {
		log.Fatalw("failed to read embedded schema", "error", err)
	}

	if *dryRun {
		fmt.Println(string(schema))
		return
	}

	log.Infow("connecting to database", "host", cfg.Postgres.Host, "db", cfg.Postgres.DBName)
	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info("applying schema")
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}
	log.Info("schema applied successfully")
}
