package state

import (
	"github.com/indieinfra/pixrelay/config"
	"github.com/indieinfra/pixrelay/server/util"
	"github.com/indieinfra/pixrelay/storage/blob"
)

// RelayState bundles what request handlers need: the loaded configuration,
// the active blob store and the externally advertised base URL.
type RelayState struct {
	Cfg     *config.Config
	Store   blob.Store
	BaseURL string
	Logger  util.Logger
}
