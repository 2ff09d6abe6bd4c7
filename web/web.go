package web

import "embed"

// Templates 页面模板：layouts、includes 和 views
//
//go:embed templates
var Templates embed.FS

//go:embed static
var Static embed.FS
