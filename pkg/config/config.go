/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads and validates the monitor configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the daemon looks for its configuration.
const DefaultPath = "/etc/mesh-monitor/config.yml"

// LoadFile is a generic helper that loads a YAML or JSON file from path into
// the struct pointed to by dst. The format is picked from the file extension.
func LoadFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("%w: failed to unmarshal JSON from '%s': %w", ErrInvalidConfig, path, err)
		}
	default:
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("%w: failed to unmarshal YAML from '%s': %w", ErrInvalidConfig, path, err)
		}
	}

	return nil
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	if v, ok := cfg.(Validator); ok {
		return v.Validate()
	}

	return nil
}

// LoadAndValidate loads a configuration file and validates it if possible.
// Defaults are applied between the two steps when cfg implements Defaulter.
func LoadAndValidate(path string, cfg interface{}) error {
	if err := LoadFile(path, cfg); err != nil {
		return err
	}

	if d, ok := cfg.(Defaulter); ok {
		d.ApplyDefaults()
	}

	return ValidateConfig(cfg)
}

// Load reads the monitor configuration at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := LoadAndValidate(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
