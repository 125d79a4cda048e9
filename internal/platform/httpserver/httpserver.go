// Package httpserver builds the HTTP server and its liveness endpoint.
package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// New builds an HTTP server with the timeouts this service runs with. Server
// level errors (TLS handshakes, malformed requests) go to logger at warn.
func New(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}
