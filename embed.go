package embedded

import "embed"

//go:embed "public"
var Public embed.FS

//go:embed "migrations"
var Migrations embed.FS
