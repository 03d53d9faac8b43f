package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the server configuration, loaded from an HCL file with env
// and flag overrides applied on top by the caller.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Bots   BotSettings    `hcl:"bots,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// BotSettings tunes CPU player behaviour.
type BotSettings struct {
	DelayMS int `hcl:"delay_ms,optional"`
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "",
			Port:     3001,
			LogLevel: "info",
		},
		Bots: BotSettings{
			DelayMS: int(DefaultBotDelay / time.Millisecond),
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults; the PORT environment variable overrides the port either
// way.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}

		var loaded Config
		diags = gohcl.DecodeBody(file.Body, nil, &loaded)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
		config = &loaded
	}

	if config.Server.Port == 0 {
		config.Server.Port = 3001
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Bots.DelayMS == 0 {
		config.Bots.DelayMS = int(DefaultBotDelay / time.Millisecond)
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		config.Server.Port = p
	}

	return config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Bots.DelayMS < 0 {
		return fmt.Errorf("bot delay must not be negative: %d", c.Bots.DelayMS)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}
	return nil
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// BotDelay returns the configured bot think delay.
func (c *Config) BotDelay() time.Duration {
	return time.Duration(c.Bots.DelayMS) * time.Millisecond
}
