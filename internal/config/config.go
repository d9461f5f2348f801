// Package config assembles run settings from defaults, an optional YAML file,
// the environment (optionally seeded from .env) and command-line flags, in
// that order of increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRefresh = 100 * time.Millisecond
	envPrefix      = "IPSCRAPER_"
)

type Config struct {
	Path       string        `yaml:"path"`
	Output     string        `yaml:"output"`
	Concurrent int           `yaml:"concurrent"`
	Recursive  bool          `yaml:"recursive"`
	NoTUI      bool          `yaml:"no_tui"`
	Refresh    time.Duration `yaml:"refresh"`
	LogFile    string        `yaml:"log_file"`
	LogLevel   string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Output:     DefaultOutput(time.Now()),
		Concurrent: runtime.NumCPU(),
		Refresh:    DefaultRefresh,
		LogLevel:   "info",
	}
}

// DefaultOutput is unique_ips_<dd_MM_yyyy>.txt on the user's Desktop, or in
// the working directory when there is no Desktop.
func DefaultOutput(now time.Time) string {
	name := fmt.Sprintf("unique_ips_%s.txt", now.Format("02_01_2006"))
	if home, err := os.UserHomeDir(); err == nil {
		desktop := filepath.Join(home, "Desktop")
		if fi, err := os.Stat(desktop); err == nil && fi.IsDir() {
			return filepath.Join(desktop, name)
		}
	}
	return name
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads .env files (missing ones are fine) and applies IPSCRAPER_*
// variables onto c. Variables already set in the process win over .env.
func (c *Config) LoadEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v, ok := lookup("PATH"); ok {
		c.Path = v
	}
	if v, ok := lookup("OUTPUT"); ok {
		c.Output = v
	}
	if v, ok := lookup("LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("CONCURRENT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCONCURRENT: %w", envPrefix, err)
		}
		c.Concurrent = n
	}
	if v, ok := lookup("REFRESH"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREFRESH: %w", envPrefix, err)
		}
		c.Refresh = d
	}
	for name, dst := range map[string]*bool{"RECURSIVE": &c.Recursive, "NO_TUI": &c.NoTUI} {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = b
		}
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// RegisterFlags binds flags to c, showing c's current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Path, "path", c.Path, "root folder to scan")
	fs.StringVar(&c.Output, "output", c.Output, "output file for unique IPs")
	fs.IntVar(&c.Concurrent, "concurrent", c.Concurrent, "number of files scanned in parallel")
	fs.BoolVar(&c.Recursive, "recursive", c.Recursive, "include files in subdirectories")
	fs.BoolVar(&c.NoTUI, "no-tui", c.NoTUI, "plain line output instead of the live table")
	fs.DurationVar(&c.Refresh, "refresh", c.Refresh, "display refresh interval")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "write logs to this file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// Load builds the configuration for args (without the program name). Only
// flags the user actually passed override the file and environment layers.
func Load(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	flagged := Default()
	flagged.RegisterFlags(fs)
	configPath := fs.String("config", "", "YAML config file")
	envFile := fs.String("env", ".env", "dotenv file with IPSCRAPER_* variables")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.LoadEnv(*envFile); err != nil {
		return Config{}, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.override(f.Name, flagged) })
	if fs.NArg() > 0 && cfg.Path == "" {
		cfg.Path = fs.Arg(0)
	}

	cfg.Validate()
	return cfg, nil
}

func (c *Config) override(flagName string, from Config) {
	switch flagName {
	case "path":
		c.Path = from.Path
	case "output":
		c.Output = from.Output
	case "concurrent":
		c.Concurrent = from.Concurrent
	case "recursive":
		c.Recursive = from.Recursive
	case "no-tui":
		c.NoTUI = from.NoTUI
	case "refresh":
		c.Refresh = from.Refresh
	case "log":
		c.LogFile = from.LogFile
	case "log-level":
		c.LogLevel = from.LogLevel
	}
}

// Validate clamps out-of-range values.
func (c *Config) Validate() {
	if c.Concurrent <= 0 {
		c.Concurrent = 1
	}
	if c.Refresh <= 0 {
		c.Refresh = DefaultRefresh
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
