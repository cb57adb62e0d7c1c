package opts

import (
	"github.com/walteh/gitctx/pkg/settings"
	"github.com/walteh/gitctx/pkg/store"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Settings *settings.Settings
	Store    *store.Store
	HomeDir  string
}
