// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// session.go persists SessionConfig to a YAML file between editor runs,
// reusing gopkg.in/yaml.v3 - the teacher's own dependency, originally used
// for shader descriptions (the deleted load/shd.go) and reused here for
// tool preferences, consistent with carrying the ambient stack regardless
// of the rendering/GUI non-goals.

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSessionConfig reads path and returns its SessionConfig. A missing
// file is not an error: it returns the defaults so first-run behaves like
// any prior run that never customized anything.
func LoadSessionConfig(path string) (SessionConfig, error) {
	cfg := defaultSessionConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultSessionConfig(), err
	}
	return cfg, nil
}

// SaveSessionConfig writes cfg to path as YAML, logging (not failing) on
// a write error since losing tool preferences should never block an
// editor action like quitting.
func SaveSessionConfig(path string, cfg SessionConfig) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		slog.Error("marshal session config", "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("write session config", "path", path, "err", err)
	}
}
