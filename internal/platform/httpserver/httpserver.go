package httpserver

import (
	"net/http"
	"time"
)

// New builds the registry's HTTP server. ReadHeaderTimeout bounds
// slow-header clients; request bodies are small JSON documents, so no
// further timeouts are imposed here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
