// Package postgres provides PostgreSQL implementations of the store
// interfaces, using database/sql with the pgx stdlib driver. Flat row
// records are decoded into domain entities at exactly one boundary function
// per entity type; positional data never leaves this package.
package postgres
