package schema

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brickstats/internal/config"
	apperrors "brickstats/internal/errors"
	"brickstats/internal/relations"
)

const foreignKeyQuery = `
	SELECT
		tc.table_name,
		kcu.column_name,
		ccu.table_name AS referenced_table,
		ccu.column_name AS referenced_column
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
	  ON tc.constraint_name = kcu.constraint_name
	 AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage ccu
	  ON ccu.constraint_name = tc.constraint_name
	 AND ccu.table_schema = tc.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
	  AND tc.table_schema = $1
	ORDER BY tc.table_name, kcu.column_name
`

// Querier is the subset of pgxpool.Pool used by the introspector
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Introspector reads foreign keys from one schema
type Introspector struct {
	db           Querier
	schema       string
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewIntrospector creates an introspector for schema. A zero timeout means
// queries are bounded only by the caller's context.
func NewIntrospector(db Querier, schema string, queryTimeout time.Duration, logger *slog.Logger) *Introspector {
	if schema == "" {
		schema = "public"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Introspector{
		db:           db,
		schema:       schema,
		queryTimeout: queryTimeout,
		logger:       logger.With("component", "schema"),
	}
}

// Connect opens a pool for cfg.URL and verifies it with a ping
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, apperrors.NewConfigError("database url is not set", nil)
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.NewDatabaseError("failed to ping database", err)
	}

	return pool, nil
}

// withTimeout applies the query timeout unless the parent already has a
// shorter deadline.
func (i *Introspector) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if i.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < i.queryTimeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, i.queryTimeout)
}

// ForeignKeys returns every foreign key in the schema as a relationship
func (i *Introspector) ForeignKeys(ctx context.Context) ([]relations.Relationship, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.db.Query(ctx, foreignKeyQuery, i.schema)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to query foreign keys", err).
			WithContext("schema", i.schema)
	}
	defer rows.Close()

	var rels []relations.Relationship
	for rows.Next() {
		var rel relations.Relationship
		if err := rows.Scan(&rel.SourceTable, &rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn); err != nil {
			return nil, apperrors.NewDatabaseError("failed to scan foreign key", err)
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("failed to read foreign keys", err)
	}

	i.logger.InfoContext(ctx, "foreign keys introspected",
		slog.String("schema", i.schema),
		slog.Int("relationships", len(rels)))

	return rels, nil
}

// ExportManifest writes the schema's foreign keys to path as a manifest
func (i *Introspector) ExportManifest(ctx context.Context, path string) ([]relations.Relationship, error) {
	rels, err := i.ForeignKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("foreign keys in schema %q", i.schema))
	}
	if err := writeManifestFile(path, rels); err != nil {
		return nil, err
	}
	return rels, nil
}
