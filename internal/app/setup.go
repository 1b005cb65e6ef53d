// Package app contains the application setup for the pet service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/petstore/internal/config"
	"github.com/abgdnv/petstore/internal/service"
	"github.com/abgdnv/petstore/internal/store"
	"github.com/abgdnv/petstore/internal/transport/rest"
	"github.com/abgdnv/petstore/pkg/server"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	PetService service.PetService
	Logger     *slog.Logger
}

func SetupDependencies(petStore store.PetStore, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		PetService: service.NewService(petStore),
		Logger:     logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the pet service.
// Also used by tests to run the full stack against an in-memory store.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the pet service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	petHandler := rest.NewHandler(deps.PetService, deps.Logger)
	petHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the pet service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
