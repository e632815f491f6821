package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*.html
var staticFS embed.FS

// UsageHTML is the fixed usage hint served at /validar/.
var UsageHTML = mustRead("static/usage.html")

// FS returns an http.FileSystem for the embedded pages.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

func mustRead(name string) []byte {
	b, err := staticFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return b
}
