package requester

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dslink-go/dslink/pkg/log"
	"github.com/dslink-go/dslink/pkg/subscription"
)

// Default configuration values.
const (
	DefaultMaxPending = 65536
	DefaultQoS        = 0
)

// Config configures a Requester.
type Config struct {
	// LinkName identifies the link in log output.
	LinkName string `yaml:"link_name"`

	// BasePath is prepended to paths that do not start with "/".
	BasePath string `yaml:"base_path"`

	// DefaultQoS is the subscription QoS used when Subscribe is not given
	// one (0-3).
	DefaultQoS uint8 `yaml:"default_qos"`

	// MaxPending caps the number of outstanding request ids.
	MaxPending int `yaml:"max_pending"`

	// MaxSubscriptions caps the number of subscribed paths.
	MaxSubscriptions int `yaml:"max_subscriptions"`

	// ProtocolLogPath, if set, is a file the requester writes its protocol
	// log to.
	ProtocolLogPath string `yaml:"protocol_log_path"`

	// Logger is the optional logger for operational output.
	// If nil, slog.Default() is used.
	Logger *slog.Logger `yaml:"-"`

	// ProtocolLogger receives protocol events in addition to
	// ProtocolLogPath. If both are unset, protocol logging is disabled.
	ProtocolLogger log.Logger `yaml:"-"`
}

// DefaultConfig returns the default requester configuration.
func DefaultConfig() Config {
	return Config{
		DefaultQoS:       DefaultQoS,
		MaxPending:       DefaultMaxPending,
		MaxSubscriptions: subscription.DefaultMaxSubscriptions,
	}
}

// ParseConfig parses a YAML configuration. Fields missing from data keep
// their DefaultConfig values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path must be absolute: %q", c.BasePath)
	}
	if c.DefaultQoS > subscription.MaxQoS {
		return fmt.Errorf("default_qos must be 0-%d: %d", subscription.MaxQoS, c.DefaultQoS)
	}
	if c.MaxPending < 0 {
		return fmt.Errorf("max_pending must not be negative: %d", c.MaxPending)
	}
	if c.MaxSubscriptions < 0 {
		return fmt.Errorf("max_subscriptions must not be negative: %d", c.MaxSubscriptions)
	}
	return nil
}

// resolvePath turns p into an absolute node path.
func (c Config) resolvePath(p string) (string, error) {
	switch {
	case p == "":
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	case strings.HasPrefix(p, "/"):
		return p, nil
	case c.BasePath == "":
		return "", fmt.Errorf("%w: %q is relative and no base path is set", ErrInvalidPath, p)
	default:
		return childPath(c.BasePath, p), nil
	}
}

// childPath joins a node path and a child name.
func childPath(parent, name string) string {
	return strings.TrimSuffix(parent, "/") + "/" + name
}
