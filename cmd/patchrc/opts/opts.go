package opts

import (
	"context"

	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Pass       *config.Pass
	BaseDir    string
	ConfigHash string
	Logger     *log.Logger
	UserLogger *log.UserLogger
}

// Loader builds RootOpts after command flags have been parsed
type Loader func(ctx context.Context) (*RootOpts, error)
