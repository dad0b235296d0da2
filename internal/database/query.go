package database

import (
	"strings"
)

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
// For SQLite, returns the query unchanged.
// For PostgreSQL, converts ? to $1, $2, etc.
//
// Example:
//
//	input:  "SELECT * FROM runs WHERE id = ? AND status = ?"
//	SQLite: "SELECT * FROM runs WHERE id = ? AND status = ?"
//	Postgres: "SELECT * FROM runs WHERE id = $1 AND status = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1

	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}

	return result.String()
}

// Expand replaces {bool} and {timestamp} markers in a schema statement with
// the dialect's column types.
func (qb *QueryBuilder) Expand(schema string) string {
	return strings.NewReplacer(
		"{bool}", qb.dialect.BoolType(),
		"{timestamp}", qb.dialect.TimestampType(),
	).Replace(schema)
}
