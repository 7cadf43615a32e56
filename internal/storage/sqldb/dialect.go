package sqldb

import (
	"fmt"
	"strings"
)

// dialect captures the SQL differences between the supported databases.
// Everything else uses portable statements with ? placeholders.
type dialect struct {
	name   string
	driver string

	// insertIgnore starts an insert that silently skips unique conflicts
	insertIgnore string
	// forUpdate is appended to reads that precede a write in the same transaction
	forUpdate string
	// greatest is the two-argument maximum function
	greatest string
	// migrationTableDDL creates the applied-migrations bookkeeping table
	migrationTableDDL string
}

var sqliteDialect = dialect{
	name:         "sqlite",
	driver:       "sqlite",
	insertIgnore: "INSERT OR IGNORE INTO",
	// Transactions are opened with BEGIN IMMEDIATE, which already takes the write lock
	forUpdate: "",
	greatest:  "MAX",
	migrationTableDDL: `CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`,
}

var mysqlDialect = dialect{
	name:         "mysql",
	driver:       "mysql",
	insertIgnore: "INSERT IGNORE INTO",
	forUpdate:    " FOR UPDATE",
	greatest:     "GREATEST",
	migrationTableDDL: `CREATE TABLE IF NOT EXISTS schema_migrations (
    name VARCHAR(255) PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`,
}

// excluded refers to the value a conflicting insert tried to write
func (d dialect) excluded(col string) string {
	if d.name == "mysql" {
		return "VALUES(" + col + ")"
	}
	return "excluded." + col
}

// upsert builds an insert that updates the given assignments when the
// conflict columns already exist. Assignments are written as "col = expr".
func (d dialect) upsert(table string, cols []string, conflict []string, assignments ...string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)
	if d.name == "mysql" {
		return insert + " ON DUPLICATE KEY UPDATE " + strings.Join(assignments, ", ")
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s", insert, strings.Join(conflict, ", "), strings.Join(assignments, ", "))
}

// set assigns the conflicting insert's value to col
func (d dialect) set(col string) string {
	return col + " = " + d.excluded(col)
}
