package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/satisfying-background/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envContentRoot = "SATISFYING_BACKGROUND_CONTENT_ROOT"
	envCatalog     = "SATISFYING_BACKGROUND_CATALOG"
	envStateDB     = "SATISFYING_BACKGROUND_STATE_DB"
	envRestore     = "SATISFYING_BACKGROUND_RESTORE"
	envSocketPath  = "SATISFYING_BACKGROUND_SOCKET"
	envWidth       = "SATISFYING_BACKGROUND_WIDTH"
	envHeight      = "SATISFYING_BACKGROUND_HEIGHT"
	envShowFooter  = "SATISFYING_BACKGROUND_FOOTER"
	envTrace       = "SATISFYING_BACKGROUND_TRACE"
	envLogFile     = "SATISFYING_BACKGROUND_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("satisfying-background", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	contentRoot := fs.String("content-root", envOrDefault(env, envContentRoot, ""), "directory holding <key>.html backgrounds (empty uses the bundled set)")
	catalog := fs.String("catalog", envOrDefault(env, envCatalog, ""), "YAML/TOML/JSON file listing the chooser's backgrounds")
	stateDB := fs.String("state-db", envOrDefault(env, envStateDB, ""), "SQLite file for panel state (empty uses the XDG state dir, :memory: disables persistence)")
	restore := fs.Bool("restore", envOrBool(env, envRestore, true), "restore panels saved by the previous run")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			ContentRoot: *contentRoot,
			CatalogPath: *catalog,
			StateDB:     *stateDB,
			Restore:     *restore,
			SocketPath:  *socket,
			Width:       *width,
			Height:      *height,
			ShowFooter:  *footer,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"contentRoot": *contentRoot,
			"catalog":     *catalog,
			"stateDB":     *stateDB,
			"restore":     strconv.FormatBool(*restore),
			"socket":      *socket,
			"width":       strconv.Itoa(*width),
			"height":      strconv.Itoa(*height),
			"footer":      strconv.FormatBool(*footer),
			"trace":       strconv.FormatBool(*trace),
			"logFile":     *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks the paths the application needs before it starts.
func Validate(cfg Config) error {
	if root := cfg.App.ContentRoot; root != "" {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("content root: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("content root %s is not a directory", root)
		}
	}
	if path := cfg.App.CatalogPath; path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("catalog %s is a directory", path)
		}
	}
	return nil
}
