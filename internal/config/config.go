// Package config loads run configuration from the environment and optional
// location profiles.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for the debate loop.
const (
	DefaultMaxRounds          = 5
	DefaultConsensusThreshold = 10
)

// Config is the full runtime configuration.
type Config struct {
	APIKey             string
	OutputDir          string
	MaxRounds          int
	ConsensusThreshold float64
	DebateEnabled      bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("config: OPENROUTER_API_KEY is required")
	}

	outputDir := os.Getenv("CLOSURECAST_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "output"
	}

	maxRounds, err := envInt("CLOSURECAST_MAX_ROUNDS", DefaultMaxRounds)
	if err != nil {
		return nil, err
	}

	threshold, err := envFloat("CLOSURECAST_CONSENSUS_THRESHOLD", DefaultConsensusThreshold)
	if err != nil {
		return nil, err
	}

	debateEnabled, err := envBool("CLOSURECAST_DEBATE", true)
	if err != nil {
		return nil, err
	}

	if maxRounds < 1 {
		return nil, fmt.Errorf("config: MaxRounds must be >= 1, got %d", maxRounds)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("config: ConsensusThreshold must be > 0, got %g", threshold)
	}

	return &Config{
		APIKey:             apiKey,
		OutputDir:          outputDir,
		MaxRounds:          maxRounds,
		ConsensusThreshold: threshold,
		DebateEnabled:      debateEnabled,
	}, nil
}

// LoadDotEnv loads a .env file into the environment without overriding
// variables already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading .env: %w", err)
	}
	return nil
}

// Profile is a reusable location definition for repeated runs.
type Profile struct {
	Location  string  `yaml:"location"`
	District  string  `yaml:"district"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// LoadProfile reads a YAML location profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parsing profile: %w", err)
	}
	if p.Location == "" {
		return nil, fmt.Errorf("config: profile %s: location is required", path)
	}
	return &p, nil
}

func envInt(key string, defaultVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}
