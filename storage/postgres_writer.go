package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"bess-tracker/models"
)

// PostgresWriter persists the merged project dataset to PostgreSQL. The
// table is a sink for downstream reporting, not a source of truth: every
// run replaces the previous dataset.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id                     SERIAL PRIMARY KEY,
			scraped_at             TIMESTAMPTZ   NOT NULL,
			country                VARCHAR(50)   NOT NULL DEFAULT '',
			region                 TEXT          NOT NULL DEFAULT '',
			site_name              TEXT          NOT NULL DEFAULT '',
			capacity_mw            TEXT          NOT NULL DEFAULT '',
			capacity_mw_numeric    NUMERIC(10,1),
			status                 TEXT          NOT NULL DEFAULT '',
			investment_opportunity TEXT          NOT NULL DEFAULT '',
			source                 TEXT          NOT NULL DEFAULT '',
			url                    TEXT          NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_projects_status   ON projects(status);
		CREATE INDEX IF NOT EXISTS idx_projects_region   ON projects(region);
		CREATE INDEX IF NOT EXISTS idx_projects_capacity ON projects(capacity_mw_numeric);
	`)
	return err
}

// Clear deletes the previous run's dataset.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM projects")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the merged record set, clearing old data first.
func (pw *PostgresWriter) Write(records []*models.ProjectRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.ProjectRecord) error {
	const fields = 10
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*fields)

	for idx, r := range batch {
		base := idx * fields
		placeholders := make([]string, fields)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var capacity sql.NullFloat64
		if r.CapacityMWNumeric != nil {
			capacity = sql.NullFloat64{Float64: *r.CapacityMWNumeric, Valid: true}
		}
		valueArgs = append(valueArgs,
			r.ScrapedAt, r.Country, r.Region, r.SiteName, r.CapacityMW,
			capacity, r.Status, r.InvestmentOpportunity, r.Source, r.URL)
	}

	query := fmt.Sprintf(`
		INSERT INTO projects (scraped_at, country, region, site_name, capacity_mw,
		                      capacity_mw_numeric, status, investment_opportunity, source, url)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
