package frontend

import "embed"

// StaticFiles holds the built web UI. Run `npm run build` in this
// directory to refresh dist/ before cutting a release.
//
//go:embed all:dist
var StaticFiles embed.FS
