package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *CaseRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS eora_cases (
	source TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	scraped_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_eora_cases_scraped_at ON eora_cases(scraped_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *CaseRepository) UpsertCase(ctx context.Context, c domain.ScrapedCase) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO eora_cases (source, content, scraped_at)
VALUES ($1, $2, $3)
ON CONFLICT (source) DO UPDATE SET content = EXCLUDED.content, scraped_at = EXCLUDED.scraped_at
`, c.Source, c.Content, c.ScrapedAt)
	if err != nil {
		return fmt.Errorf("upsert case %s: %w", c.Source, err)
	}
	return nil
}

func (r *CaseRepository) ListCases(ctx context.Context) ([]domain.ScrapedCase, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT source, content, scraped_at
FROM eora_cases
ORDER BY source
`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.ScrapedCase
	for rows.Next() {
		var c domain.ScrapedCase
		if err := rows.Scan(&c.Source, &c.Content, &c.ScrapedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return cases, nil
}
