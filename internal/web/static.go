package web

import (
	"embed"
)

// staticFiles holds the embedded console page.
//
//go:embed static/*
var staticFiles embed.FS
