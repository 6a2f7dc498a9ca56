package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/filedeckapp/filedeck-server/internal/bridge"
	"github.com/filedeckapp/filedeck-server/internal/browse"
	"github.com/filedeckapp/filedeck-server/internal/config"
	"github.com/filedeckapp/filedeck-server/internal/logger"
	"github.com/filedeckapp/filedeck-server/internal/watcher"
)

// WatchRegistryHandle wraps the watch registry with shutdown capability.
type WatchRegistryHandle struct {
	*watcher.Registry
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *WatchRegistryHandle) Shutdown() error {
	h.cancel()
	return h.Registry.Stop()
}

// ProvideWatchRegistry provides the shared filesystem watch registry and
// starts the event bridge that forwards changes to connected clients.
func ProvideWatchRegistry(i do.Injector) (*WatchRegistryHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	registry, err := watcher.New(log.Logger, browse.ResolveExisting, watcher.Options{
		EventBuffer: cfg.Watcher.EventBuffer,
	})
	if err != nil {
		// The OS watch facility could not be initialized. Nothing downstream
		// works without it, so this is the one fatal startup path.
		return nil, err
	}

	// Arm configured paths before delivery starts so no early change is missed.
	for _, path := range cfg.Watcher.Paths {
		if err := registry.Arm(path); err != nil {
			log.Warn("failed to arm configured watch path", "path", path, "error", err)
			continue
		}
		log.Info("watching configured path", "path", path)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Start delivery in background
	go func() {
		if err := registry.Start(ctx); err != nil {
			log.Error("watch registry error", "error", err)
		}
	}()

	// Pump change events to the GUI event stream
	b := bridge.New(registry, sseHandle.Manager, log.Logger)
	go b.Run(ctx)

	log.Info("watch registry started", "configured_paths", len(cfg.Watcher.Paths))

	return &WatchRegistryHandle{
		Registry: registry,
		cancel:   cancel,
	}, nil
}
