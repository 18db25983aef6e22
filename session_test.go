// Copyright © 2024 Galvanized Logic Inc.

package rig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSessionConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadSessionConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want := defaultSessionConfig()
	if cfg != want {
		t.Fatalf("expected defaults %+v, got %+v", want, cfg)
	}
}

func TestSaveThenLoadSessionConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	cfg := SessionConfig{
		LastOpenedDir:           "/home/user/models",
		ExportStationsAsMarkers: true,
		WindowX:                 10,
		WindowY:                 20,
		WindowW:                 1024,
		WindowH:                 768,
	}
	SaveSessionConfig(path, cfg)

	loaded, err := LoadSessionConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != cfg {
		t.Fatalf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestLoadSessionConfigCorruptFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadSessionConfig(path)
	if err == nil {
		t.Fatal("expected an error unmarshalling corrupt YAML")
	}
	if cfg != defaultSessionConfig() {
		t.Fatalf("expected defaults on a parse error, got %+v", cfg)
	}
}
