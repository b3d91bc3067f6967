// Package migrations provides embedded SQL migration files.
package migrations

import (
	_ "embed"
)

// InitialSQL creates the listings tables. Statements are idempotent.
//
//go:embed sql/001_initial.sql
var InitialSQL string
