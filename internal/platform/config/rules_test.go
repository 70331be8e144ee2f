package config

import (
	"os"
	"path/filepath"
	"testing"
)

const rulesFixture = `
commands:
  enabled: true
  prefix: "!"
  admins: [operator]
  echo_results: true
chat_filter:
  enabled: true
  blocked_senders: [spammer]
  blocked_patterns: ["(?i)buy gold"]
events:
  buffer_size: 500
  enabled_types: [chat, death]
`

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte(rulesFixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if !rules.Commands.Enabled || rules.Commands.Prefix != "!" {
		t.Errorf("commands = %+v", rules.Commands)
	}
	if len(rules.Commands.Admins) != 1 || rules.Commands.Admins[0] != "operator" {
		t.Errorf("admins = %v", rules.Commands.Admins)
	}
	if !rules.ChatFilter.Enabled || len(rules.ChatFilter.BlockedPatterns) != 1 {
		t.Errorf("chat filter = %+v", rules.ChatFilter)
	}
	if rules.Events.BufferSize != 500 || len(rules.Events.EnabledTypes) != 2 {
		t.Errorf("events = %+v", rules.Events)
	}
}

func TestLoadRules_EmptyPath(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if rules.Commands.Enabled {
		t.Fatal("zero rules should leave commands disabled")
	}
}

func TestLoadRules_Errors(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("commands: ["), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("undecodable file should error")
	}
}
