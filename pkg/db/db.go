package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrTableNotFound = errors.New("table not found")

// ColumnInfo represents database column metadata
type ColumnInfo struct {
	TableName     string
	ColumnName    string
	DataType      string
	IsNullable    bool
	ColumnDefault string
}

const describeQuery = `
		SELECT
			table_name,
			column_name,
			data_type,
			is_nullable,
			column_default
		FROM
			information_schema.columns
		WHERE
			table_schema = $1
			AND table_name = $2
		ORDER BY
			ordinal_position;
	`

var schemaTmpl = template.Must(template.New("schema").Parse(`Table: {{.Table}}
{{range $col := .Columns}}- {{$col.ColumnName}} ({{$col.DataType}}){{if $col.ColumnDefault}} default {{$col.ColumnDefault}}{{end}} {{if $col.IsNullable}}[nullable]{{else}}[not nullable]{{end}}
{{end}}`))

// Open connects to PostgreSQL through the pgx database/sql driver and checks
// the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database dsn is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return db, nil
}

// Columns reads the column metadata of schema.table in ordinal order.
func Columns(ctx context.Context, db *sql.DB, schema, table string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, describeQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query information_schema: %w", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var isNullableStr string
		var columnDefault sql.NullString
		if err := rows.Scan(&col.TableName, &col.ColumnName, &col.DataType, &isNullableStr, &columnDefault); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		col.IsNullable = isNullableStr == "YES"
		col.ColumnDefault = columnDefault.String
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after reading rows: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrTableNotFound, schema, table)
	}

	return columns, nil
}

// DescribeTable renders the schema text handed to the generator as context.
func DescribeTable(ctx context.Context, db *sql.DB, schema, table string) (string, error) {
	columns, err := Columns(ctx, db, schema, table)
	if err != nil {
		return "", err
	}

	return RenderSchema(table, columns)
}

func RenderSchema(table string, columns []ColumnInfo) (string, error) {
	var b strings.Builder
	data := struct {
		Table   string
		Columns []ColumnInfo
	}{table, columns}

	if err := schemaTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to execute schema template: %w", err)
	}

	return strings.TrimSpace(b.String()), nil
}
