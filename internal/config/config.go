package config

import (
	"bytes"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/snailderby/internal/race"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "SNAILDERBY_"

// Config is the resolved process configuration
type Config struct {
	Port          int
	DBPath        string
	AdminPassword string
	BaseURL       string

	LogLevel    string
	LogFormat   string
	HTTPLogging bool

	Capacity       int
	StartingPoints int
	// Seed fixes the race RNG; 0 seeds from the OS
	Seed uint64

	EnvFile    string
	TuningFile string
	Tuning     race.Tuning

	NoBanner    bool
	ShowVersion bool
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Port:           3000,
		DBPath:         "snailderby.db",
		LogLevel:       "info",
		LogFormat:      "text",
		Capacity:       10,
		StartingPoints: 1000,
		EnvFile:        ".env",
		Tuning:         race.DefaultTuning(),
	}
}

// envKeys maps flag names to their environment variable suffix
var envKeys = map[string]string{
	"port":            "PORT",
	"db":              "DB",
	"adminpw":         "ADMIN_PASSWORD",
	"baseurl":         "BASE_URL",
	"loglevel":        "LOG_LEVEL",
	"logformat":       "LOG_FORMAT",
	"httplog":         "HTTP_LOG",
	"capacity":        "CAPACITY",
	"starting-points": "STARTING_POINTS",
	"seed":            "SEED",
	"tuning":          "TUNING",
}

func newFlagSet(cfg *Config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("snailderby", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path for the snail catalog")
	fs.StringVar(&cfg.AdminPassword, "adminpw", cfg.AdminPassword, "Admin password (auto-generated if not set)")
	fs.StringVar(&cfg.BaseURL, "baseurl", cfg.BaseURL, "Public base URL for invite links (detected from the LAN if not set)")
	fs.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "logformat", cfg.LogFormat, "Log format (text, json)")
	fs.BoolVar(&cfg.HTTPLogging, "httplog", cfg.HTTPLogging, "Log every HTTP request")
	fs.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "Maximum participants per room")
	fs.IntVar(&cfg.StartingPoints, "starting-points", cfg.StartingPoints, "Points every participant starts with")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Race RNG seed (0 = random)")
	fs.StringVar(&cfg.TuningFile, "tuning", cfg.TuningFile, "YAML file overriding race tuning")
	fs.StringVar(&cfg.EnvFile, "env", cfg.EnvFile, "dotenv file to read before the environment")
	fs.BoolVar(&cfg.NoBanner, "nobanner", cfg.NoBanner, "Skip the startup banner")
	fs.BoolVar(&cfg.ShowVersion, "version", cfg.ShowVersion, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Snail Derby - multiplayer snail race betting rooms\n\nUsage:\n  snailderby [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nOptions other than -env, -nobanner and -version can also be set as %s<NAME>, e.g. %sPORT=8080.\n", EnvPrefix, EnvPrefix)
	}
	return fs
}

// Load resolves the configuration. Precedence, highest first: args, the
// process environment, the dotenv file, defaults. getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	cfg := Default()
	fs := newFlagSet(&cfg, output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	dotenv, err := readDotEnv(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	for name, suffix := range envKeys {
		if explicit[name] {
			continue
		}
		key := EnvPrefix + suffix
		value := getenv(key)
		if value == "" {
			value = dotenv[key]
		}
		if value == "" {
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	if cfg.TuningFile != "" {
		t, err := LoadTuning(cfg.TuningFile)
		if err != nil {
			return nil, err
		}
		cfg.Tuning = t
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readDotEnv returns the variables in path. A missing file is not an error.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}

// LoadTuning reads a YAML race tuning file over the defaults. Unknown keys are rejected.
func LoadTuning(path string) (race.Tuning, error) {
	t := race.DefaultTuning()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !stderrors.Is(err, io.EOF) {
		return t, fmt.Errorf("parse tuning file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return t, nil
}

// Validate checks ranges the server cannot run without
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be within 1-65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", c.Capacity)
	}
	if c.StartingPoints < 1 {
		return fmt.Errorf("starting points must be at least 1, got %d", c.StartingPoints)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return c.Tuning.Validate()
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
