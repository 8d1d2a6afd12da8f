package listener

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/loglane/syslogcore/defs"
	"gopkg.in/yaml.v3"
)

// Protocol selects the transport a Listener binds
type Protocol string

const (
	ProtocolUDP Protocol = "udp"
	ProtocolTCP Protocol = "tcp"
)

// Config is the external configuration surface for Start
type Config struct {
	Port     int               `yaml:"port"`
	Protocol Protocol          `yaml:"protocol"`
	Address  string            `yaml:"address"`
	MaxFrame datasize.ByteSize `yaml:"maxFrame"`
}

// WithDefaults returns a copy of cfg with zero-valued fields filled from the package defaults
//
// Port is left untouched: zero means "OS-assigned" per Start's contract, not "unset". Callers that
// want the conventional default port (defs.ListenerDefaultPort) must set it explicitly, typically
// while loading the external CLI/config-file surface that populates a Config.
func (cfg Config) WithDefaults() Config {
	if cfg.Protocol == "" {
		cfg.Protocol = ProtocolUDP
	}
	if cfg.MaxFrame == 0 {
		cfg.MaxFrame = datasize.ByteSize(defs.ListenerMaxFrameBytes)
	}
	return cfg
}

func (cfg Config) validate() error {
	if cfg.Protocol != ProtocolUDP && cfg.Protocol != ProtocolTCP {
		return fmt.Errorf("unsupported protocol: %q", cfg.Protocol)
	}
	return nil
}

// UnmarshalYAML decodes a Config, applies its defaults, and validates it in place, attaching the
// node's source location to any failure so a bad config file points at the offending line.
func (cfg *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig Config
	raw := rawConfig{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	decoded := Config(raw).WithDefaults()
	if err := decoded.validate(); err != nil {
		return fmt.Errorf("yaml line %d:%d: %w", node.Line, node.Column, err)
	}
	*cfg = decoded
	return nil
}
