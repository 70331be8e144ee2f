package chatfilter

import "testing"

func mustNew(t *testing.T, cfg Config, prefix string) *Filter {
	t.Helper()
	f, err := New(cfg, prefix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestFilter_RulePrecedence(t *testing.T) {
	cfg := Config{
		Enabled:         true,
		BlockedSenders:  []string{"Spammer"},
		BlockedPatterns: []string{`(?i)buy gold`, `^\[server\]`},
	}
	f := mustNew(t, cfg, "!")

	tests := []struct {
		name     string
		username string
		text     string
		want     bool
	}{
		{"blocked sender, innocuous text", "spammer", "hello there", true},
		{"blocked sender is case-insensitive", "SPAMMER", "hi", true},
		{"pattern match from clean sender", "alice", "BUY GOLD cheap", true},
		{"anchored pattern", "alice", "[server] restart soon", true},
		{"prefix fallback for unconsumed command syntax", "alice", "!notacommand", true},
		{"plain message passes", "alice", "good morning", false},
		{"prefix mid-text does not count", "alice", "see the !notacommand thing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Suppress(tt.username, tt.text); got != tt.want {
				t.Errorf("Suppress(%q, %q) = %v, want %v", tt.username, tt.text, got, tt.want)
			}
		})
	}
}

func TestFilter_DisabledSuppressesNothing(t *testing.T) {
	cfg := Config{
		Enabled:         false,
		BlockedSenders:  []string{"spammer"},
		BlockedPatterns: []string{`.`},
	}
	f := mustNew(t, cfg, "!")

	if f.Suppress("spammer", "!anything at all") {
		t.Error("disabled filter must not suppress")
	}
}

func TestFilter_NoPrefixFallbackWithoutPrefix(t *testing.T) {
	f := mustNew(t, Config{Enabled: true}, "")
	if f.Suppress("alice", "!looks-like-a-command") {
		t.Error("without a configured prefix there is no fallback rule")
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(Config{Enabled: true, BlockedPatterns: []string{"("}}, "!")
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}
