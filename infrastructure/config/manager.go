package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Manager provides get/set operations over the known config keys
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a new config manager
func NewManager(cfg *Config, configPath string) *Manager {
	return &Manager{
		config:     cfg,
		configPath: configPath,
	}
}

// Entry is one key/value pair of the configuration
type Entry struct {
	Key   string
	Value string
}

// Set updates the given key and persists the configuration.
// Known keys: video-dir, audio-dir, bitrate, ffmpeg-path, workers.
func (m *Manager) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	if value == "" {
		return fmt.Errorf("%w: %q requires a value", ErrInvalidValue, key)
	}

	switch key {
	case "video-dir":
		m.config.Paths.VideoDirectory = value
	case "audio-dir":
		m.config.Paths.AudioDirectory = value
	case "bitrate":
		m.config.Audio.Bitrate = value
	case "ffmpeg-path":
		m.config.FFmpeg.Path = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: workers must be a positive integer, got %q", ErrInvalidValue, value)
		}
		m.config.Conversion.Workers = n
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	return Save(m.config, m.configPath)
}

// Get returns the value of the given key
func (m *Manager) Get(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))

	for _, e := range m.Entries() {
		if e.Key == key {
			return e.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Entries returns all known keys with their current values, sorted by key
func (m *Manager) Entries() []Entry {
	entries := []Entry{
		{Key: "video-dir", Value: m.config.Paths.VideoDirectory},
		{Key: "audio-dir", Value: m.config.Paths.AudioDirectory},
		{Key: "bitrate", Value: m.config.Audio.Bitrate},
		{Key: "ffmpeg-path", Value: m.config.FFmpeg.Path},
		{Key: "workers", Value: strconv.Itoa(m.config.Conversion.Workers)},
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries
}
