package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/filedeckapp/filedeck-server/internal/api"
	"github.com/filedeckapp/filedeck-server/internal/browse"
	"github.com/filedeckapp/filedeck-server/internal/config"
	"github.com/filedeckapp/filedeck-server/internal/logger"
	"github.com/filedeckapp/filedeck-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	browser := do.MustInvoke[*browse.Browser](i)
	registryHandle := do.MustInvoke[*WatchRegistryHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	sseHandler := do.MustInvoke[*sse.Handler](i)

	handler := api.NewServer(
		browser,
		registryHandle.Registry,
		sseHandle.Manager,
		sseHandler,
		api.Options{AllowedOrigins: cfg.Server.AllowedOrigins},
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
