// Package config provides YAML-based configuration loading with environment
// overrides for agent processes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvHost          = "AGENTSOCIETY_HOST"
	EnvPortStart     = "AGENTSOCIETY_PORT_START"
	EnvPortRange     = "AGENTSOCIETY_PORT_RANGE"
	EnvLogLevel      = "AGENTSOCIETY_LOG_LEVEL"
	EnvBrainProvider = "AGENTSOCIETY_BRAIN_PROVIDER"
	EnvBrainModel    = "AGENTSOCIETY_BRAIN_MODEL"
)

// Config is the top-level configuration, loaded from agentsociety.yaml.
type Config struct {
	Network Network       `yaml:"network"`
	Logging Logging       `yaml:"logging"`
	Brain   Brain         `yaml:"brain"`
	Agents  []AgentConfig `yaml:"agents"`
}

// Network holds the addressing triple every Ear binds from plus connection
// timeouts.
type Network struct {
	Host      string `yaml:"host"`
	PortStart int    `yaml:"port_start"`
	PortRange int    `yaml:"port_range"`
	// DialTimeout bounds a Mouth's connect.
	DialTimeout time.Duration `yaml:"dial_timeout"`
	// ReadTimeout bounds how long an Ear waits for one frame. Zero selects
	// the default; a negative value disables the deadline.
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// MaxFieldBytes caps instruction and extra bodies on receive. Zero means no cap.
	MaxFieldBytes uint32 `yaml:"max_field_bytes"`
}

// Logging selects level and format of the process logger.
type Logging struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// Brain selects the reasoning backend used by the CLI.
type Brain struct {
	Provider    string  `yaml:"provider"` // anthropic, openai or mock
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// AgentConfig declares one agent to spawn.
type AgentConfig struct {
	Name        string       `yaml:"name"`
	Instruction string       `yaml:"instruction"`
	Terminal    bool         `yaml:"terminal"`
	Friends     []string     `yaml:"friends"`
	Tools       []ToolConfig `yaml:"tools"`
}

// ToolConfig declares a tool owned by an agent.
type ToolConfig struct {
	Name        string `yaml:"name"`
	Instruction string `yaml:"instruction"`
	Command     string `yaml:"command"`
}

// Default returns a configuration with every default applied and no agents.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file from path, applies environment overrides
// and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse unmarshals YAML bytes into a validated Config without consulting
// the environment.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnv loads KEY=VALUE pairs from the given dotenv files (".env" when none
// are given) into the process environment. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("config: load env: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables resolved by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Network.Host = v
	}
	if v, ok := lookup(EnvPortStart); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPortStart, err)
		}
		c.Network.PortStart = n
	}
	if v, ok := lookup(EnvPortRange); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPortRange, err)
		}
		c.Network.PortRange = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvBrainProvider); ok && v != "" {
		c.Brain.Provider = v
	}
	if v, ok := lookup(EnvBrainModel); ok && v != "" {
		c.Brain.Model = v
	}
	return nil
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.Network.Host == "" {
		c.Network.Host = "127.0.0.1"
	}
	if c.Network.PortStart == 0 {
		c.Network.PortStart = 9000
	}
	if c.Network.PortRange == 0 {
		c.Network.PortRange = 100
	}
	if c.Network.DialTimeout == 0 {
		c.Network.DialTimeout = 5 * time.Second
	}
	if c.Network.ReadTimeout == 0 {
		c.Network.ReadTimeout = 30 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Brain.Provider == "" {
		c.Brain.Provider = "mock"
	}
	if c.Brain.MaxTokens == 0 {
		c.Brain.MaxTokens = 4096
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Network.PortStart < 1 || c.Network.PortStart > 65535 {
		errs = append(errs, fmt.Sprintf("network.port_start %d out of range", c.Network.PortStart))
	}
	if c.Network.PortRange < 1 {
		errs = append(errs, "network.port_range must be positive")
	} else if c.Network.PortStart+c.Network.PortRange-1 > 65535 {
		errs = append(errs, "network.port_start + port_range exceeds 65535")
	}
	if c.Network.DialTimeout < 0 {
		errs = append(errs, "network.dial_timeout must not be negative")
	}
	switch c.Brain.Provider {
	case "anthropic", "openai", "mock":
	default:
		errs = append(errs, fmt.Sprintf("brain.provider %q is not one of anthropic, openai, mock", c.Brain.Provider))
	}

	seen := map[string]bool{}
	for i, a := range c.Agents {
		if a.Name == "" {
			errs = append(errs, fmt.Sprintf("agents[%d].name is required", i))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, fmt.Sprintf("agents[%d].name %q is duplicated", i, a.Name))
		}
		seen[a.Name] = true
	}
	for i, a := range c.Agents {
		for _, f := range a.Friends {
			if !seen[f] {
				errs = append(errs, fmt.Sprintf("agents[%d].friends: unknown agent %q", i, f))
			}
		}
		for j, t := range a.Tools {
			if t.Name == "" {
				errs = append(errs, fmt.Sprintf("agents[%d].tools[%d].name is required", i, j))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// FindAgent returns the agent declaration named name.
func (c *Config) FindAgent(name string) (AgentConfig, bool) {
	for _, a := range c.Agents {
		if a.Name == name {
			return a, true
		}
	}
	return AgentConfig{}, false
}

// FromEnv returns the defaults overridden by environment variables resolved
// by lookup. It is used when no config file is given.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
