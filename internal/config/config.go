// Package config resolves runtime options from flags, the environment, a
// .env file and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/sleact-tui/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Sources map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envPrefix      = "SLEACT_"
	defaultBaseURL = "http://localhost:3095"
	defaultEnvFile = ".env"
)

// Source names recorded per option.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceDotenv  = "dotenv"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// options lists every setting resolvable from a lower layer. config and
// env-file only locate those layers and are read from flags or the
// environment.
var options = []string{
	"base-url", "workspace", "cookie",
	"dedupe", "refresh", "timeout",
	"width", "height", "footer",
	"verbose", "trace", "log-file",
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	flagSet := pflag.NewFlagSet("sleact", pflag.ContinueOnError)
	flagSet.SetOutput(new(strings.Builder))

	baseURL := flagSet.String("base-url", defaultBaseURL, "API origin, e.g. http://localhost:3095")
	workspace := flagSet.String("workspace", "", "workspace URL slug to open (defaults to the first one)")
	cookie := flagSet.String("cookie", "", "session cookie header copied from a signed-in browser")
	dedupe := flagSet.Duration("dedupe", 2*time.Second, "window in which repeated reads of a key share one response")
	refresh := flagSet.Duration("refresh", 0, "revalidate everything on this interval (0 disables)")
	timeout := flagSet.Duration("timeout", 10*time.Second, "per-request timeout")
	width := flagSet.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	height := flagSet.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	footer := flagSet.Bool("footer", false, "enable footer hint row")
	verbose := flagSet.Bool("verbose", false, "keep success messages on screen")
	trace := flagSet.Bool("trace", false, "enable verbose JSON trace logging")
	logFile := flagSet.String("log-file", "", "path to the log file")
	configPath := flagSet.String("config", "", "path to a YAML config file")
	envFile := flagSet.String("env-file", defaultEnvFile, "path to a .env file")

	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if !flagSet.Changed("config") {
		*configPath = env[envName("config")]
	}
	if !flagSet.Changed("env-file") {
		if v, ok := env[envName("env-file")]; ok {
			*envFile = v
		}
	}

	fileValues, err := readYAML(*configPath)
	if err != nil {
		return Config{}, err
	}
	dotenv, err := readDotenv(*envFile)
	if err != nil {
		return Config{}, err
	}

	sources := make(map[string]string, len(options))
	for _, name := range options {
		if flagSet.Changed(name) {
			sources[name] = SourceFlag
			continue
		}
		value, source, ok := lookup(name, env, dotenv, fileValues)
		if !ok {
			sources[name] = SourceDefault
			continue
		}
		if err := flagSet.Set(name, value); err != nil {
			return Config{}, fmt.Errorf("%s from %s: %w", name, source, err)
		}
		sources[name] = source
	}

	cfg := Config{
		App: app.Config{
			BaseURL:    strings.TrimRight(strings.TrimSpace(*baseURL), "/"),
			Workspace:  strings.TrimSpace(*workspace),
			Cookie:     strings.TrimSpace(*cookie),
			Dedupe:     *dedupe,
			Refresh:    *refresh,
			Timeout:    *timeout,
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
			Verbose:    *verbose,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags:   make(map[string]string, len(options)),
		Sources: sources,
		Args:    append([]string(nil), args...),
	}
	flagSet.VisitAll(func(f *pflag.Flag) {
		if f.Name == "cookie" {
			cfg.Flags[f.Name] = redact(f.Value.String())
			return
		}
		cfg.Flags[f.Name] = f.Value.String()
	})

	return cfg, nil
}

// envName maps an option to its environment variable: base-url becomes
// SLEACT_BASE_URL.
func envName(option string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(option, "-", "_"))
}

func lookup(name string, layers ...map[string]string) (string, string, bool) {
	sources := []string{SourceEnv, SourceDotenv, SourceFile}
	key := envName(name)
	for i, layer := range layers {
		if i < 2 {
			if v, ok := layer[key]; ok && strings.TrimSpace(v) != "" {
				return v, sources[i], true
			}
			continue
		}
		if v, ok := layer[name]; ok {
			return v, sources[i], true
		}
	}
	return "", "", false
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

// readDotenv returns the variables of path. A missing file is not an error.
func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// readYAML loads a flat mapping of option names to scalar values.
func readYAML(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	known := make(map[string]bool, len(options))
	for _, name := range options {
		known[name] = true
	}
	values := make(map[string]string, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !known[k] {
			return nil, fmt.Errorf("parse config %s: unknown option %q", path, k)
		}
		switch v := raw[k].(type) {
		case nil:
			continue
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("parse config %s: %s must be a scalar", path, k)
		default:
			values[k] = fmt.Sprint(v)
		}
	}
	return values, nil
}

func redact(cookie string) string {
	if cookie == "" {
		return ""
	}
	return "<redacted>"
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

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.App.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("base-url must be an http(s) URL (got %q)", cfg.App.BaseURL)
	}
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.Dedupe < 0 {
		return fmt.Errorf("dedupe must be >= 0 (got %s)", cfg.App.Dedupe)
	}
	if cfg.App.Refresh < 0 {
		return fmt.Errorf("refresh must be >= 0 (got %s)", cfg.App.Refresh)
	}
	if cfg.App.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", cfg.App.Timeout)
	}
	return nil
}
