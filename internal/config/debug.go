package config

import "os"

func LoadTraceConfigFromEnv(cfg TraceConfig) TraceConfig {
	if os.Getenv("ACPCORE_TRACE_ENABLED") == "1" {
		cfg.Enabled = true
	}
	if dir := os.Getenv("ACPCORE_TRACE_DIR"); dir != "" {
		cfg.Directory = dir
	}
	return cfg
}
