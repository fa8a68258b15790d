package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where configuration is read from unless overridden
const DefaultConfigPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Audio      AudioConfig      `yaml:"audio"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	Conversion ConversionConfig `yaml:"conversion"`
}

// PathsConfig contains the default input and output directories
type PathsConfig struct {
	VideoDirectory string `yaml:"video_directory"`
	AudioDirectory string `yaml:"audio_directory"`
}

// AudioConfig contains audio encoding settings
type AudioConfig struct {
	Bitrate string `yaml:"bitrate"`
}

// FFmpegConfig contains settings for the external ffmpeg engine
type FFmpegConfig struct {
	Path string `yaml:"path"`
}

// ConversionConfig contains batch run settings
type ConversionConfig struct {
	Workers int `yaml:"workers"`
}

// Default returns the built-in configuration used when no file exists
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			VideoDirectory: "./video",
			AudioDirectory: "./audio",
		},
		Audio: AudioConfig{
			Bitrate: "192k",
		},
		FFmpeg: FFmpegConfig{
			Path: "ffmpeg",
		},
		Conversion: ConversionConfig{
			Workers: 1,
		},
	}
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
