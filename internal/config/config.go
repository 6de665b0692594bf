package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// SearchPaths overrides the per-platform collector search roots.
type SearchPaths struct {
	MacOS   []string `mapstructure:"macos"`
	Windows []string `mapstructure:"windows"`
	Linux   []string `mapstructure:"linux"`
}

// For returns the override for the given GOOS value, or nil to use the
// collector defaults.
func (s SearchPaths) For(goos string) []string {
	switch goos {
	case "darwin":
		return s.MacOS
	case "windows":
		return s.Windows
	case "linux":
		return s.Linux
	}
	return nil
}

type Config struct {
	LogLevel     string      `mapstructure:"log_level"`
	LogFormat    string      `mapstructure:"log_format"`
	KeywordsFile string      `mapstructure:"keywords_file"`
	SubmitURL    string      `mapstructure:"submit_url"`
	SearchPaths  SearchPaths `mapstructure:"search_paths"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
	}
}

func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("appscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("APPSCAN")

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist and parse; a miss on the
		// search paths is fine.
		if cfgFile != "" {
			return nil, err
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "Appscan")
	case "darwin":
		return "/Library/Application Support/Appscan"
	default:
		return "/etc/appscan"
	}
}
