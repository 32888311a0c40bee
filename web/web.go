package web

import "embed"

// Static holds the front-end page shell served alongside the JSON API.
//
//go:embed all:static
var Static embed.FS
