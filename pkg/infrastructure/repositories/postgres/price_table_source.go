package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
)

// DefaultTable holds the price list when none is configured
const DefaultTable = "repair_prices"

// priceHeader names the price column in tables read from the database
const priceHeader = "Prix"

var columns = []string{"repair_type", "quality", "brand", "series", "model", "price"}

// Connect opens a pool and checks the connection
func Connect(ctx context.Context, dsn string, logger *logging.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("database URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	logging.OrNop(logger).Info("connected to postgres", "host", config.ConnConfig.Host, "database", config.ConnConfig.Database)
	return pool, nil
}

// PriceTableSource reads the price list from a table. Row order is the
// insertion order given by the serial id, so the first-match rule holds
// exactly as for a file.
type PriceTableSource struct {
	db      *pgxpool.Pool
	table   pgx.Identifier
	mapping entities.ColumnMapping
}

// Verify interface compliance
var _ repositories.PriceTableSource = (*PriceTableSource)(nil)

// NewPriceTableSource creates a source. mapping names the header produced
// for each column so the configured column mapper resolves it.
func NewPriceTableSource(db *pgxpool.Pool, table string, mapping entities.ColumnMapping) *PriceTableSource {
	if table == "" {
		table = DefaultTable
	}
	return &PriceTableSource{db: db, table: pgx.Identifier{table}, mapping: mapping}
}

// Header returns the header of tables produced by LoadTable
func (s *PriceTableSource) Header() []string {
	price := s.mapping.Price
	if price == "" {
		price = priceHeader
	}
	return []string{s.mapping.Repair, s.mapping.Quality, s.mapping.Brand, s.mapping.Series, s.mapping.Model, price}
}

// EnsureSchema creates the price table when missing
func (s *PriceTableSource) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table.Sanitize()+` (
			id SERIAL PRIMARY KEY,
			repair_type TEXT NOT NULL DEFAULT '',
			quality TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			series TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			price TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create price table: %w", err)
	}
	return nil
}

// LoadTable reads every row in id order. A NULL price reads as empty.
func (s *PriceTableSource) LoadTable(ctx context.Context) (*entities.PriceTable, error) {
	rows, err := s.db.Query(ctx, `
		SELECT repair_type, quality, brand, series, model, COALESCE(price, '')
		FROM `+s.table.Sanitize()+`
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]string, error) {
		record := make([]string, len(columns))
		err := row.Scan(&record[0], &record[1], &record[2], &record[3], &record[4], &record[5])
		return record, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read prices: %w", err)
	}

	return &entities.PriceTable{Header: s.Header(), Records: records}, nil
}

// ImportTable replaces the table's content with the rows of a price table,
// mapped through the resolved column mapping, in one transaction
func (s *PriceTableSource) ImportTable(ctx context.Context, table *entities.PriceTable, mapping entities.ColumnMapping) (int64, error) {
	if table == nil {
		return 0, entities.ErrNilDataset
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE `+s.table.Sanitize()+` RESTART IDENTITY`); err != nil {
		return 0, fmt.Errorf("failed to clear price table: %w", err)
	}

	copied, err := tx.CopyFrom(ctx, s.table, columns, pgx.CopyFromSlice(len(table.Records), func(i int) ([]any, error) {
		record := table.Records[i]
		return []any{
			table.Cell(record, mapping.Repair),
			table.Cell(record, mapping.Quality),
			table.Cell(record, mapping.Brand),
			table.Cell(record, mapping.Series),
			table.Cell(record, mapping.Model),
			table.Cell(record, mapping.Price),
		}, nil
	}))
	if err != nil {
		return 0, fmt.Errorf("failed to copy prices: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return copied, nil
}
