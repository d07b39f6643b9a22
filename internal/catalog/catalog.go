package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Catalog answers autocomplete lookups against information_schema.
// It does not own the connection; the caller opens it per request and
// closes it when done.
type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Catalog over an open connection.
// If logger is nil, a discard logger is used.
func New(db *sql.DB, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{db: db, logger: logger}
}

// Relations returns the base tables and views in schema whose lower-cased
// name starts with prefix, ordered by name and tagged "table" or "view".
func (c *Catalog) Relations(ctx context.Context, schema, prefix string) ([]TableEntry, error) {
	c.logger.Debug("listing relations", "schema", schema, "prefix", prefix)

	query := `
		SELECT table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type IN ('BASE TABLE', 'VIEW')
		  AND LOWER(table_name) LIKE $2
		ORDER BY table_name
	`

	rows, err := c.db.QueryContext(ctx, query, schema, prefix+"%")
	if err != nil {
		return nil, &DatabaseError{Err: fmt.Errorf("failed to query tables: %w", err)}
	}
	defer func() { _ = rows.Close() }()

	var tables []TableEntry
	for rows.Next() {
		var name, tableType string
		if err := rows.Scan(&name, &tableType); err != nil {
			return nil, &DatabaseError{Err: fmt.Errorf("failed to scan table row: %w", err)}
		}
		tables = append(tables, TableEntry{
			Name: name,
			Type: normalizeTableType(tableType),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &DatabaseError{Err: fmt.Errorf("error iterating tables: %w", err)}
	}

	return tables, nil
}

// Columns returns the columns of table within schema whose lower-cased
// name starts with prefix, ordered by ordinal position.
func (c *Catalog) Columns(ctx context.Context, schema, table, prefix string) ([]ColumnEntry, error) {
	c.logger.Debug("listing columns", "schema", schema, "table", table, "prefix", prefix)

	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		  AND LOWER(column_name) LIKE $3
		ORDER BY ordinal_position
	`

	rows, err := c.db.QueryContext(ctx, query, schema, table, prefix+"%")
	if err != nil {
		return nil, &DatabaseError{Err: fmt.Errorf("failed to query columns: %w", err)}
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnEntry
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, &DatabaseError{Err: fmt.Errorf("failed to scan column row: %w", err)}
		}
		columns = append(columns, ColumnEntry{
			Name:     name,
			Table:    table,
			DataType: dataType,
			Type:     KindColumn,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &DatabaseError{Err: fmt.Errorf("error iterating columns: %w", err)}
	}

	return columns, nil
}

// ResolveSchema reports whether name matches an existing schema,
// case-insensitively. On a match it returns the catalog's own spelling of
// the schema name so follow-up lookups hit the right schema.
func (c *Catalog) ResolveSchema(ctx context.Context, name string) (string, bool, error) {
	query := `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE LOWER(schema_name) = LOWER($1)
		ORDER BY schema_name
		LIMIT 1
	`

	var canonical string
	err := c.db.QueryRowContext(ctx, query, name).Scan(&canonical)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &DatabaseError{Err: fmt.Errorf("failed to query schemata: %w", err)}
	}
	return canonical, true, nil
}

// normalizeTableType converts information_schema table types to the
// completion tags ("BASE TABLE" -> "table", "VIEW" -> "view").
func normalizeTableType(t string) string {
	t = strings.ToLower(t)
	switch {
	case strings.Contains(t, "view"):
		return KindView
	case strings.Contains(t, "table"):
		return KindTable
	default:
		return t
	}
}
