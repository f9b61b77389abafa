package config

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Host        string        `yaml:"host"`
	Stream      string        `yaml:"stream"`
	Interval    time.Duration `yaml:"interval"`
	RetryMax    int           `yaml:"retry_max"`
	Debug       bool          `yaml:"debug"`
	LogFile     string        `yaml:"log_file"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// Default returns configuration defaults.
func Default() Config {
	return Config{
		Host:     "http://127.0.0.1:8000",
		Stream:   "ws://localhost:5000/ws",
		Interval: 10 * time.Second,
		RetryMax: 3,
		LogFile:  "wifimon-termui.out.log",
	}
}

// Load reads YAML configuration from path on top of defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("can't read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("can't parse config: %w", err)
	}

	return cfg, nil
}

// Bind registers flags on fs using cfg values as defaults.
func (cfg *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&cfg.Host, "host", cfg.Host, "scanning backend address")
	fs.StringVar(&cfg.Stream, "stream", cfg.Stream, "packet push channel url")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "auto-refresh interval")
	fs.IntVar(&cfg.RetryMax, "retry", cfg.RetryMax, "network list request retries on connection failure")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "run application in debug mode")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "debug log file")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve prometheus metrics on address")
}

// Parse parses args into a normalized configuration. Values from the file
// named by -config override defaults; explicitly set flags override both.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	path := fs.String("config", "", "YAML configuration file")
	cfg.Bind(fs)

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *path != "" {
		fileCfg, err := Load(*path)
		if err != nil {
			return cfg, err
		}

		overrides := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
		fileCfg.Bind(overrides)

		var setErr error
		fs.Visit(func(f *flag.Flag) {
			if overrides.Lookup(f.Name) == nil || setErr != nil {
				return
			}
			setErr = overrides.Set(f.Name, f.Value.String())
		})
		if setErr != nil {
			return cfg, setErr
		}

		cfg = fileCfg
	}

	return cfg, cfg.Normalize()
}

// Normalize fixes up and validates configuration.
func (cfg *Config) Normalize() error {
	if cfg.Host == "" {
		return errors.New("host is required option")
	}
	if !strings.HasPrefix(cfg.Host, "http://") && !strings.HasPrefix(cfg.Host, "https://") {
		cfg.Host = "http://" + cfg.Host
	}
	cfg.Host = strings.TrimRight(cfg.Host, "/")

	if cfg.Interval <= 0 {
		return fmt.Errorf("invalid interval: %s", cfg.Interval)
	}
	if cfg.RetryMax < 0 {
		return fmt.Errorf("invalid retry count: %d", cfg.RetryMax)
	}

	return nil
}
