package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var CfgPath = os.ExpandEnv("$HOME/.config/sqlhelp/")
var CfgFile = filepath.Join(CfgPath, "settings.yaml")

// Settings configures the tool itself; the database profiles live in the
// document found by Locate.
type Settings struct {
	Alias  string       `mapstructure:"alias"`
	Search SearchConfig `mapstructure:"search"`
	Log    LogConfig    `mapstructure:"log"`
}

type SearchConfig struct {
	Start    string `mapstructure:"start"`
	FileName string `mapstructure:"file_name"`
	MaxDepth int    `mapstructure:"max_depth"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Policy returns the search policy described by the settings.
func (s *Settings) Policy() SearchPolicy {
	return SearchPolicy{FileName: s.Search.FileName, MaxDepth: s.Search.MaxDepth}
}

// NewViper returns a viper instance with defaults and SQLHELP_* environment
// binding applied. Callers may bind flags to it before LoadSettings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SQLHELP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	applyDefaults(v)
	return v
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("alias", DefaultAlias)
	v.SetDefault("search.start", ".")
	v.SetDefault("search.file_name", DefaultFileName)
	v.SetDefault("search.max_depth", 0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
}

// LoadSettings reads path (or CfgFile when empty) into v and unmarshals the
// result. A missing settings file is not an error.
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if path == "" {
		path = CfgFile
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}

	if err := ValidateSettings(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ValidateSettings validates the settings values
func ValidateSettings(s *Settings) error {
	if s.Alias == "" {
		return fmt.Errorf("alias cannot be empty")
	}
	if s.Search.FileName == "" {
		return fmt.Errorf("search.file_name cannot be empty")
	}
	if strings.ContainsRune(s.Search.FileName, filepath.Separator) {
		return fmt.Errorf("search.file_name must be a bare file name, got %s", s.Search.FileName)
	}
	if s.Search.MaxDepth < 0 {
		return fmt.Errorf("search.max_depth must be >= 0, got %d", s.Search.MaxDepth)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	for _, level := range validLevels {
		if strings.EqualFold(s.Log.Level, level) {
			return nil
		}
	}
	return fmt.Errorf("log.level must be one of: %v, got %s", validLevels, s.Log.Level)
}
