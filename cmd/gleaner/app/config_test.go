package app

import (
	"os"
	"testing"
	"time"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// Verify defaults are set
	if config.SourcesFile == "" {
		t.Error("SourcesFile not set to default")
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	// Save original env
	oldURL := os.Getenv("CKAN_URL")
	oldSources := os.Getenv("SOURCES_FILE")
	defer func() {
		os.Setenv("CKAN_URL", oldURL)
		os.Setenv("SOURCES_FILE", oldSources)
	}()

	// Set test environment variables
	os.Setenv("CKAN_URL", "https://catalog.example.org")
	os.Setenv("SOURCES_FILE", "testdata/sources.yaml")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.PortalURL != "https://catalog.example.org" {
		t.Errorf("PortalURL = %s, want https://catalog.example.org", config.PortalURL)
	}
	if config.SourcesFile != "testdata/sources.yaml" {
		t.Errorf("SourcesFile = %s, want testdata/sources.yaml", config.SourcesFile)
	}
}

// TestConfig_HTTPTimeout verifies time duration parsing.
func TestConfig_HTTPTimeout(t *testing.T) {
	oldTimeout := os.Getenv("HTTP_TIMEOUT")
	defer os.Setenv("HTTP_TIMEOUT", oldTimeout)

	os.Setenv("HTTP_TIMEOUT", "45s")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.HTTPTimeout != 45*time.Second {
		t.Errorf("HTTPTimeout = %v, want 45s", config.HTTPTimeout)
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence over config values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{
		SourcesFile: "sources.yaml",
		LogLevel:    "info",
	}

	config.UpdateFromFlags(true, false, "other.yaml", "debug")

	if !config.Verbose {
		t.Error("Verbose flag not applied")
	}
	if config.SourcesFile != "other.yaml" {
		t.Errorf("SourcesFile = %s, want other.yaml", config.SourcesFile)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}

	// Empty flag values leave the config untouched
	config.UpdateFromFlags(true, false, "", "")
	if config.SourcesFile != "other.yaml" {
		t.Errorf("SourcesFile = %s, want other.yaml after empty flag", config.SourcesFile)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug after empty flag", config.LogLevel)
	}
}
