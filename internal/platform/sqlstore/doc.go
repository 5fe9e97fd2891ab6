// Package sqlstore implements store.TaskStore on a SQL database. The same
// queries run on PostgreSQL (through pgx) and SQLite; the schema is managed
// by embedded goose migrations.
package sqlstore
