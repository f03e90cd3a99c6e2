package commands

import (
	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/config"
	"github.com/colonyops/tracklog/internal/data/stores"
	"github.com/colonyops/tracklog/internal/tui"
)

// App holds the services built in the root Before hook. Commands receive a
// pointer before it is populated.
type App struct {
	Config  *config.Config
	Catalog catalog.Catalog
	Log     *stores.LogStore
	Build   tui.BuildInfo
}
