// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SimulationConfig is the root configuration for the sentinel network.
// Zero values fall back to defaults inside the simulator, mirroring the
// reference deployment: 12 nodes, edge probability 0.3, seed 42, infection
// probability 0.05, log bound 50. InfectionProbability is a pointer so an
// explicit 0 (a non-spreading network) is distinguishable from unset.
type SimulationConfig struct {
	NodeCount            int      `yaml:"node_count"`
	EdgeProbability      float64  `yaml:"edge_probability"`
	TopologySeed         int64    `yaml:"topology_seed"`
	InfectionProbability *float64 `yaml:"infection_probability"`
	EventLogSize         int      `yaml:"event_log_size"`
}

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}
	return &cfg, nil
}
