package providers

import (
	"github.com/samber/do/v2"

	"github.com/filedeckapp/filedeck-server/internal/browse"
	"github.com/filedeckapp/filedeck-server/internal/config"
	"github.com/filedeckapp/filedeck-server/internal/logger"
)

// ProvideBrowser provides the directory and file browser.
func ProvideBrowser(i do.Injector) (*browse.Browser, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return browse.NewBrowser(log.Logger, cfg.Browse.PreviewLength), nil
}
