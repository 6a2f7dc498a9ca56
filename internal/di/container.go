// Package di provides dependency injection configuration for the FileDeck server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/filedeckapp/filedeck-server/internal/browse"
	"github.com/filedeckapp/filedeck-server/internal/config"
	"github.com/filedeckapp/filedeck-server/internal/di/providers"
	"github.com/filedeckapp/filedeck-server/internal/logger"
	"github.com/filedeckapp/filedeck-server/internal/sse"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Event stream
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideSSEHandler)

	// Filesystem layer
	do.Provide(injector, providers.ProvideBrowser)
	do.Provide(injector, providers.ProvideWatchRegistry)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*sse.Handler](injector)
	_ = do.MustInvoke[*browse.Browser](injector)
	_ = do.MustInvoke[*providers.WatchRegistryHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
