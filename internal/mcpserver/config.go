package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
)

// serverConfig holds the MCP server defaults. Tool inputs override these
// per call; the environment supplies them once at startup.
type serverConfig struct {
	// SourcesDir is the default building-block source tree.
	SourcesDir string
	// OutputDir is the default artifact root for assemble.
	OutputDir string
	// ProfilesFile is the default profile registry path. Relative paths
	// are resolved against SourcesDir.
	ProfilesFile string
	// CodesFile is the default allowed-codes table path. Relative paths
	// are resolved against SourcesDir.
	CodesFile string
	// FlattenAllOf controls composition flattening after resolution.
	FlattenAllOf bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from BBLOCKS_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		SourcesDir:   envString("BBLOCKS_SOURCES_DIR", "."),
		OutputDir:    envString("BBLOCKS_OUTPUT_DIR", "build"),
		ProfilesFile: envString("BBLOCKS_PROFILES_FILE", "profiles.yaml"),
		CodesFile:    envString("BBLOCKS_CODES_FILE", "codes.yaml"),
		FlattenAllOf: envBool("BBLOCKS_FLATTEN_ALLOF", true),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}
