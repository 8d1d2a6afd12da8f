// Package config loads the listener's external YAML configuration file, mirroring the corpus's own
// root-config loading idiom (decode with unknown-field rejection, then validate) scaled down to
// this core's single configurable component.
package config

import (
	"fmt"

	"github.com/loglane/syslogcore/listener"
)

// File defines the root of the syslogcore config file
type File struct {
	Listener listener.Config `yaml:"listener"`
}

// LoadFile loads and validates a config file from path
func LoadFile(path string) (*File, error) {
	cfg := &File{}
	if err := loadYAMLFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.Listener = cfg.Listener.WithDefaults()
	return cfg, nil
}

// Dump marshals cfg back to YAML, e.g. for logging the effective configuration at startup
func Dump(cfg *File) (string, error) {
	return dumpYAML(cfg)
}
