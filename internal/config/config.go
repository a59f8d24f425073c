// Package config defines the configuration structures and loaders.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Database holds the database file settings.
type Database struct {
	Path    string `mapstructure:"path"`
	DataDir string `mapstructure:"data_dir"`
}

// S3 holds credentials for fetching scripts from S3 sources.
type S3 struct {
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
}

// Server holds the TCP query server settings.
type Server struct {
	Address   string `mapstructure:"address"`
	JWTSecret string `mapstructure:"jwt_secret"`
	AuthUser  string `mapstructure:"auth_user"`
	AuthPass  string `mapstructure:"auth_pass"`
}

// Logging controls log level, format, and optional file output.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Config is the root configuration, loaded via viper from
// yaml/json/toml.
type Config struct {
	Database Database `mapstructure:"database"`
	S3       S3       `mapstructure:"s3"`
	Server   Server   `mapstructure:"server"`
	Logging  Logging  `mapstructure:"logging"`
}

// Load reads a configuration file into Config.
func Load(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := vp.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Script is one entry in a scripts manifest file.
type Script struct {
	Name   string `mapstructure:"name" yaml:"name" json:"name"`
	Source string `mapstructure:"source" yaml:"source" json:"source"`
}

// LoadScriptsFile loads a scripts manifest; both a bare array and a
// {scripts: []} wrapper are accepted.
func LoadScriptsFile(path string) ([]Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Scripts []Script `yaml:"scripts" json:"scripts"`
	}
	wrapErr := yaml.Unmarshal(b, &wrapper)
	if wrapErr == nil && wrapper.Scripts != nil {
		return wrapper.Scripts, nil
	}
	var arr []Script
	if err := yaml.Unmarshal(b, &arr); err == nil {
		return arr, nil
	}
	if wrapErr != nil {
		return nil, fmt.Errorf("parsing scripts manifest %s: %w", path, wrapErr)
	}
	return nil, nil
}
