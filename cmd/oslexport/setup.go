package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/Faultbox/oslexport/internal/config"
	"github.com/Faultbox/oslexport/internal/logger"
)

var errNoScenes = errors.New("no scene files given")

// setup loads the configuration and initializes logging for a command.
func setup(c *cli.Context, o config.Overrides) (*config.Config, error) {
	o.ConfigPath = c.GlobalString("config")
	o.Debug = c.GlobalBool("debug")
	o.LogFile = c.GlobalString("log-file")

	cfg, err := config.Load(o)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)
	return cfg, nil
}
