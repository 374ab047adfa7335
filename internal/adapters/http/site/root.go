// Package site serves the embedded landing page at the web root.
package site

import (
	"context"
	"net/http"
)

// Register attaches the landing page routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// The "/" pattern is the mux catch-all, so unknown paths get the
	// file server's 404 rather than an empty mux response.
	mux.Handle("/", http.FileServer(FS()))
}
