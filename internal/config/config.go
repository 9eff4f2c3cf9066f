package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// TraceConfig controls where and whether connection observations get
// written to disk.
type TraceConfig struct {
	Directory string `toml:"directory"`
	Enabled   bool   `toml:"enabled"`
}

// RelayConfig controls the websocket bridge that lets a browser-based
// client drive an agent connected over stdio.
type RelayConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// McpServersConfig bounds how long a managed MCP server is given to come
// up before its launch is considered failed.
type McpServersConfig struct {
	LaunchTimeoutSeconds int `toml:"launch_timeout_seconds"`
}

type Config struct {
	DataDir    string           `toml:"data_dir"`
	Trace      TraceConfig      `toml:"trace"`
	Relay      RelayConfig      `toml:"relay"`
	McpServers McpServersConfig `toml:"mcp_servers"`
}

func (c Config) McpLaunchTimeout() time.Duration {
	return time.Duration(c.McpServers.LaunchTimeoutSeconds) * time.Second
}

func Default() Config {
	defaultDataDir := defaultDataDir()
	return Config{
		DataDir: defaultDataDir,
		Trace: TraceConfig{
			Directory: filepath.Join(defaultDataDir, "traces"),
			Enabled:   false,
		},
		Relay: RelayConfig{
			ListenAddr: ":8999",
		},
		McpServers: McpServersConfig{
			LaunchTimeoutSeconds: 10,
		},
	}
}

func LoadOrCreate(path string) (Config, error) {
	config := Default()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return config, err
			}

			configData, err := toml.Marshal(config)
			if err != nil {
				return config, err
			}

			if err := os.WriteFile(path, configData, 0o644); err != nil {
				return config, err
			}

			return config, nil
		}

		return config, err
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := toml.Unmarshal(configData, &config); err != nil {
		return config, err
	}

	config.DataDir = expandPath(config.DataDir)
	config.Trace.Directory = expandPath(config.Trace.Directory)
	config.Relay.ListenAddr = strings.TrimSpace(config.Relay.ListenAddr)

	if config.Relay.ListenAddr == "" {
		config.Relay.ListenAddr = ":8999"
	}
	if config.McpServers.LaunchTimeoutSeconds <= 0 {
		return config, errors.New("mcp_servers.launch_timeout_seconds must be positive")
	}

	return config, nil
}

func defaultDataDir() string {
	homeDir, _ := os.UserHomeDir()

	if homeDir == "" {
		return ".acpcore"
	}

	return filepath.Join(homeDir, ".acpcore")
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		homeDir, _ := os.UserHomeDir()

		if homeDir != "" {
			trimmed := strings.TrimPrefix(path, "~")
			trimmed = strings.TrimPrefix(trimmed, string(os.PathSeparator))

			return filepath.Join(homeDir, trimmed)
		}
	}

	return path
}
