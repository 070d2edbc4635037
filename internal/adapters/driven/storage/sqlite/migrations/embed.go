// Package migrations holds the schema scripts for the skilldex database.
// Scripts are named NNN_description.up.sql and run in version order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
