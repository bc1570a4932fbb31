package core

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ControllerSuffix string `yaml:"controllerSuffix"`
	DefaultArea      string `yaml:"defaultArea"`
	ViewsDir         string `yaml:"viewsDir"`
	OutputDir        string `yaml:"outputDir"`
	CacheEnabled     bool   `yaml:"cache"`
	DebugHeaders     bool   `yaml:"debugHeaders"`
	DebugLogs        bool   `yaml:"debugLogs"`
	LogFormat        string `yaml:"logFormat"`
}

func LoadConfig(path string) Config {
	cfg := Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		yaml.Unmarshal(data, &cfg)
	}

	if cfg.ControllerSuffix == "" {
		cfg.ControllerSuffix = "Controller"
	}
	if cfg.ViewsDir == "" {
		cfg.ViewsDir = "views"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./cache"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	return cfg
}

// DispatchConfig is the slice of Config the dispatcher needs: the suffix
// appended to resolved controller names and the area used when a route
// binding declares none. An empty DefaultArea means area resolution is
// simply absent.
type DispatchConfig struct {
	ControllerSuffix string
	DefaultArea      string
}

// Dispatch extracts the dispatcher's configuration from the loaded config.
func (c Config) Dispatch() DispatchConfig {
	return DispatchConfig{
		ControllerSuffix: c.ControllerSuffix,
		DefaultArea:      c.DefaultArea,
	}
}
