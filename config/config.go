package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval = 15 * time.Minute
	DefaultDatabase = "app-sensors.db"
	DefaultVersion  = "dev"
)

type Redis struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// Config is read from a YAML file. Command line flags override individual values.
type Config struct {
	Interval    time.Duration   `yaml:"interval"`
	SDKLevel    int             `yaml:"sdk_level"`
	Version     string          `yaml:"version"`
	PackageName string          `yaml:"package_name"`
	ProcessName string          `yaml:"process_name"`
	Uid         *int            `yaml:"uid"`
	Database    string          `yaml:"database"`
	Listen      string          `yaml:"listen"`
	Webhook     string          `yaml:"webhook"`
	Redis       Redis           `yaml:"redis"`
	Policy      string          `yaml:"policy"`
	Include     []string        `yaml:"include"`
	Exclude     []string        `yaml:"exclude"`
	Sensors     map[string]bool `yaml:"sensors"`
}

func Default() *Config {
	return &Config{
		Interval: DefaultInterval,
		Version:  DefaultVersion,
		Database: DefaultDatabase,
		Policy:   "sequential",
		Sensors:  make(map[string]bool),
	}
}

// Load reads the file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("Error parsing config: %v", err)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Sensors == nil {
		cfg.Sensors = make(map[string]bool)
	}
	if _, err := cfg.IncludeRegexes(); err != nil {
		return nil, err
	}
	if _, err := cfg.ExcludeRegexes(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) IncludeRegexes() ([]*regexp.Regexp, error) {
	return compileAll("include", cfg.Include)
}

func (cfg *Config) ExcludeRegexes() ([]*regexp.Regexp, error) {
	return compileAll("exclude", cfg.Exclude)
}

func compileAll(what string, expressions []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(expressions))
	for _, expr := range expressions {
		regex, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("Error compiling %v regex: %v", what, err)
		}
		res = append(res, regex)
	}
	return res, nil
}
