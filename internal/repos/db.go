package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"pixelmart/internal/domain"
	"pixelmart/internal/telemetry"
)

// DriverFor picks the database/sql driver from the DSN: postgres URLs go to
// lib/pq, anything else is treated as a sqlite path.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

func OpenDB(dsn string) (*sqlx.DB, error) {
	driver := DriverFor(dsn)
	raw, err := telemetry.OpenDB(driver, dsn)
	if err != nil {
		return nil, err
	}
	db := sqlx.NewDb(raw, driver)
	if driver == "sqlite" {
		// one connection: ":memory:" databases are per-connection and sqlite has a single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	// Seed catalog and promos if this is a fresh store
	if err := seedIfEmpty(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS blobs(
  blob_key   TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at TEXT
)`)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	seeds := map[string]any{
		domain.KeyProducts: SeedCatalog(),
		domain.KeyPromos:   SeedPromos(),
	}
	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, key := range []string{domain.KeyProducts, domain.KeyPromos} {
		b, err := json.Marshal(seeds[key])
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO blobs(blob_key, value, updated_at) VALUES(?, ?, ?)
			ON CONFLICT(blob_key) DO NOTHING
		`), key, string(b), time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if inserted > 0 {
		log.Printf("[seed] inserted %d default collections", inserted)
	}
	return tx.Commit()
}
