package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voxelbot/voxelbot/internal/chatfilter"
	"github.com/voxelbot/voxelbot/internal/command"
)

// Rules is the yaml rules file: the command subsystem configuration, the
// chat filter rules and the event-log policy.
type Rules struct {
	Commands   command.Config    `yaml:"commands"`
	ChatFilter chatfilter.Config `yaml:"chat_filter"`
	Events     EventRules        `yaml:"events"`
}

// EventRules configures the event log.
type EventRules struct {
	// BufferSize bounds the event log; zero means the store default.
	BufferSize int `yaml:"buffer_size"`
	// EnabledTypes replaces the enabled-type set at startup when non-empty.
	EnabledTypes []string `yaml:"enabled_types"`
}

// LoadRules reads and decodes the yaml rules file at path. A missing path
// returns zero rules so the agent can start with everything disabled.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return Rules{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	var rules Rules
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return Rules{}, fmt.Errorf("decode rules file %s: %w", path, err)
	}
	return rules, nil
}
