// Package web embeds the single-page front end served at the site root.
package web

import "embed"

//go:embed index.html app.js styles.css
var Assets embed.FS
