package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENROUTER_API_KEY",
		"CLOSURECAST_OUTPUT_DIR",
		"CLOSURECAST_MAX_ROUNDS",
		"CLOSURECAST_CONSENSUS_THRESHOLD",
		"CLOSURECAST_DEBATE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when OPENROUTER_API_KEY is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "test-key")
	}
	if cfg.OutputDir != "output" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "output")
	}
	if cfg.MaxRounds != DefaultMaxRounds {
		t.Errorf("MaxRounds = %d, want %d", cfg.MaxRounds, DefaultMaxRounds)
	}
	if cfg.ConsensusThreshold != DefaultConsensusThreshold {
		t.Errorf("ConsensusThreshold = %g, want %d", cfg.ConsensusThreshold, DefaultConsensusThreshold)
	}
	if !cfg.DebateEnabled {
		t.Error("DebateEnabled should default to true")
	}
}

func TestLoad_CustomEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "my-key")
	t.Setenv("CLOSURECAST_OUTPUT_DIR", "results")
	t.Setenv("CLOSURECAST_MAX_ROUNDS", "3")
	t.Setenv("CLOSURECAST_CONSENSUS_THRESHOLD", "15")
	t.Setenv("CLOSURECAST_DEBATE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "results" {
		t.Errorf("OutputDir = %q, want results", cfg.OutputDir)
	}
	if cfg.MaxRounds != 3 {
		t.Errorf("MaxRounds = %d, want 3", cfg.MaxRounds)
	}
	if cfg.ConsensusThreshold != 15 {
		t.Errorf("ConsensusThreshold = %g, want 15", cfg.ConsensusThreshold)
	}
	if cfg.DebateEnabled {
		t.Error("DebateEnabled should be false")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "k")
	t.Setenv("CLOSURECAST_MAX_ROUNDS", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric max rounds")
	}

	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "k")
	t.Setenv("CLOSURECAST_MAX_ROUNDS", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero max rounds")
	}

	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "k")
	t.Setenv("CLOSURECAST_CONSENSUS_THRESHOLD", "-5")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative threshold")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "OPENROUTER_API_KEY=from-dotenv\nCLOSURECAST_MAX_ROUNDS=2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("OPENROUTER_API_KEY"); got != "from-dotenv" {
		t.Errorf("OPENROUTER_API_KEY = %q, want from-dotenv", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing .env should not be an error, got %v", err)
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "district.yaml")
	content := "location: Rochester, NY\ndistrict: Rochester City SD\nlatitude: 43.16\nlongitude: -77.61\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Location != "Rochester, NY" {
		t.Errorf("Location = %q", p.Location)
	}
	if p.Latitude != 43.16 || p.Longitude != -77.61 {
		t.Errorf("coords = %g, %g", p.Latitude, p.Longitude)
	}
}

func TestLoadProfileMissingLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("district: X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Error("expected error for profile without location")
	}
}
