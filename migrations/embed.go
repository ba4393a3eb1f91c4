// Package migrations embute os scripts goose do esquema do Mini ERP.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
