package main

import (
	"net/http"
	"time"

	"storefront-catalog/config"
	"storefront-catalog/internal/usecase"
)

// newServer builds the HTTP server. Shutdown ends every session first: that
// closes their engines, which releases open long-polls and stops pending
// searches, so in-flight requests can drain within the shutdown deadline.
func newServer(addr string, cfg *config.Config, handler http.Handler, sessions *usecase.SessionUsecase) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Long-polled catalog reads hold the response open.
		WriteTimeout: cfg.LongPollTimeout + 15*time.Second,
	}
	srv.RegisterOnShutdown(sessions.EndAll)
	return srv
}
