// Package recruitadmin embeds the console's templates and static files.
//
// With DEV=true the console reads frontend/ from disk instead, so template edits show up
// without a rebuild.
package recruitadmin

import "embed"

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
