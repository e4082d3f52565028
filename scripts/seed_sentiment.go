// seed_sentiment.go: standalone script to load the sentiment CSV into the
// pharmacy_sentiment table of Postgres or a SQLite file.
//
// Usage:
//
//	go run scripts/seed_sentiment.go -csv data/sentiment.csv -db postgres://localhost/apotek
//	go run scripts/seed_sentiment.go -csv data/sentiment.csv -sqlite data/sentiment.db
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
)

const createTable = `CREATE TABLE IF NOT EXISTS pharmacy_sentiment (
	name               TEXT PRIMARY KEY,
	address            TEXT,
	service_score      DOUBLE PRECISION,
	availability_score DOUBLE PRECISION
)`

const upsertPostgres = `INSERT INTO pharmacy_sentiment (name, address, service_score, availability_score)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (name) DO UPDATE SET address = EXCLUDED.address,
		service_score = EXCLUDED.service_score, availability_score = EXCLUDED.availability_score`

const upsertSQLite = `INSERT OR REPLACE INTO pharmacy_sentiment (name, address, service_score, availability_score)
	VALUES (?, ?, ?, ?)`

func main() {
	csvPath := flag.String("csv", "data/sentiment.csv", "path to sentiment CSV")
	dbURL := flag.String("db", os.Getenv("APOTEK_DATABASE_URL"), "Postgres URL")
	sqlitePath := flag.String("sqlite", "", "SQLite file to write instead of Postgres")
	dryRun := flag.Bool("dry-run", false, "print records without writing")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, skipped, err := sentiment.ReadCSV(f, sentiment.DefaultColumns())
	if err != nil {
		log.Fatalf("read csv: %v", err)
	}
	log.Printf("parsed %d records from %s (%d skipped)", len(records), *csvPath, skipped)

	if *dryRun {
		for i, r := range records {
			fmt.Printf("[%d] %s (service=%.2f, availability=%.2f)\n", i+1, r.Name, r.Service, r.Availability)
		}
		return
	}

	ctx := context.Background()
	switch {
	case *sqlitePath != "":
		err = seedSQLite(ctx, *sqlitePath, records)
	case *dbURL != "":
		err = seedPostgres(ctx, *dbURL, records)
	default:
		log.Fatal("one of -db or -sqlite is required")
	}
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("done: %d records written", len(records))
}

func seedPostgres(ctx context.Context, url string, records []sentiment.Record) error {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertPostgres, r.Name, r.Address, r.Service, r.Availability)
	}
	return conn.SendBatch(ctx, batch).Close()
}

func seedSQLite(ctx context.Context, path string, records []sentiment.Record) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, r := range records {
		if _, err := tx.ExecContext(ctx, upsertSQLite, r.Name, r.Address, r.Service, r.Availability); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}
