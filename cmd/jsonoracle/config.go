package main

import (
	"os"
	"strings"

	"jsonoracle/internal/config"
	"jsonoracle/internal/runinfo"
	"jsonoracle/internal/util"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// loadConfig reads --config and applies the global flag overrides. A missing
// default config file falls back to built-in defaults; a missing file named
// explicitly is an error. The log file is only opened for long runs.
func loadConfig(cmd *cobra.Command, withLogFile bool) (config.Config, error) {
	var cfg config.Config
	explicit := cmd.Flag("config") != nil && cmd.Flag("config").Changed
	if _, err := os.Stat(globalConfig); err != nil {
		if !os.IsNotExist(err) || explicit {
			return cfg, errors.Wrap(err, "config")
		}
		cfg = config.Default()
		cfg.RunInfo = runinfo.FromEnv()
	} else {
		if cfg, err = config.Load(globalConfig); err != nil {
			return cfg, err
		}
	}
	if len(globalBackends) > 0 {
		names := make([]string, 0, len(globalBackends))
		for _, name := range globalBackends {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			cfg.Backends = names
		}
	}
	if globalVerbose {
		cfg.Logging.Verbose = true
	}
	logFile := ""
	if withLogFile {
		logFile = cfg.Logging.LogFile
	}
	if err := util.ConfigureLogging(cfg.Logging.Verbose, logFile); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func hasBackend(cfg config.Config, name string) bool {
	for _, b := range cfg.Backends {
		if b == name {
			return true
		}
	}
	return false
}
