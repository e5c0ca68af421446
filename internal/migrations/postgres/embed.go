// Package postgres embeds the goose migrations for the PostgreSQL schema.
package postgres

import "embed"

//go:embed *.sql
var Migrations embed.FS
