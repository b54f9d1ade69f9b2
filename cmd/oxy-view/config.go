package main

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/config"
)

// loadConfig reads the settings file, or the defaults when none is given, and applies its log
// level unless --log-level was set.
func loadConfig(opts *globalOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if err := setLogLevel(common.Coalesce(opts.logLevel, cfg.LogLevel)); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
