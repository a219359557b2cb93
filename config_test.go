package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(Path(filepath.Join(t.TempDir(), "missing.yaml")))
	if err != nil {
		t.Fatal(err)
	}
	if config.MetadataDirectory != "Metadata" {
		t.Errorf("MetadataDirectory = %q", config.MetadataDirectory)
	}
	if config.RenameTemplate != "{prefix} - {date} {episode}. {suffix}" {
		t.Errorf("RenameTemplate = %q", config.RenameTemplate)
	}
	if config.episodeRegex == nil || config.dateRegex == nil {
		t.Error("patterns not compiled")
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
metadata_directory: Meta
cache_hours: 48
episode_pattern: '(?i)(part)(\s+)(\d+)'
file_replacements:
  - pattern: '\s+'
    replacement: ' '
premium_networks:
  - name: Wondery+
    tag: generator
    text: wondery
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(Path(configFile))
	if err != nil {
		t.Fatal(err)
	}
	if config.MetadataDirectory != "Meta" {
		t.Errorf("MetadataDirectory = %q", config.MetadataDirectory)
	}
	if config.CacheHours != 48 {
		t.Errorf("CacheHours = %d", config.CacheHours)
	}
	if !config.episodeRegex.MatchString("Part 3") {
		t.Error("overridden episode pattern not in effect")
	}
	if len(config.FileReplacements) != 1 || config.FileReplacements[0].compiled == nil {
		t.Error("file replacements not compiled")
	}
	if len(config.PremiumNetworks) != 1 || config.PremiumNetworks[0].Name != "Wondery+" {
		t.Errorf("PremiumNetworks = %+v", config.PremiumNetworks)
	}
	// untouched keys keep their defaults
	if config.RssCensorMode != "delete" {
		t.Errorf("RssCensorMode = %q", config.RssCensorMode)
	}
}

func TestLoadConfigRejectsBadPattern(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("episode_pattern: '(['\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(Path(configFile)); err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	if got := ConfigPath(Path(dir)); got != Path(filepath.Join(dir, "config.yaml")) {
		t.Errorf("ConfigPath(dir) = %s", got)
	}
	file := Path(filepath.Join(dir, "custom.yaml"))
	if got := ConfigPath(file); got != file {
		t.Errorf("ConfigPath(file) = %s", got)
	}
}
