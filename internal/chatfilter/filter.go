// Package chatfilter suppresses chat messages matching configured rules
// before they become stored events. It runs after command interception: the
// chat handler consults the filter only for messages the command router did
// not consume.
package chatfilter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config holds the filter rules.
type Config struct {
	// Enabled turns the filter on. A disabled filter suppresses nothing.
	Enabled bool `yaml:"enabled"`
	// BlockedSenders lists sender usernames whose messages are dropped.
	// Matching is case-insensitive.
	BlockedSenders []string `yaml:"blocked_senders"`
	// BlockedPatterns lists regular expressions; a message matching any of
	// them is dropped.
	BlockedPatterns []string `yaml:"blocked_patterns"`
}

// Filter evaluates chat suppression rules in a fixed order: blocked sender,
// then blocked pattern, then the command-prefix fallback. The first matching
// rule suppresses the message.
type Filter struct {
	enabled  bool
	senders  map[string]struct{}
	patterns []*regexp.Regexp
	// prefix is the command router's prefix; prefix-marked messages that
	// reached the filter were not consumed as commands and are suppressed by
	// default so raw command syntax never leaks into the event stream.
	prefix string
}

var suppressedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "voxelbot",
	Subsystem: "chat",
	Name:      "suppressed_total",
	Help:      "Chat messages suppressed by the content filter, by rule.",
}, []string{"rule"})

// New compiles the configured rules. An invalid pattern is a configuration
// error and fails construction.
func New(cfg Config, commandPrefix string) (*Filter, error) {
	f := &Filter{
		enabled: cfg.Enabled,
		senders: make(map[string]struct{}, len(cfg.BlockedSenders)),
		prefix:  commandPrefix,
	}
	for _, sender := range cfg.BlockedSenders {
		f.senders[strings.ToLower(sender)] = struct{}{}
	}
	for _, pattern := range cfg.BlockedPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile blocked pattern %q: %w", pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Suppress reports whether the message must be dropped. The chat handler must
// not construct an event when this returns true.
func (f *Filter) Suppress(username, text string) bool {
	if !f.enabled {
		return false
	}
	if _, ok := f.senders[strings.ToLower(username)]; ok {
		suppressedTotal.WithLabelValues("sender").Inc()
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(text) {
			suppressedTotal.WithLabelValues("pattern").Inc()
			return true
		}
	}
	if f.prefix != "" && strings.HasPrefix(text, f.prefix) {
		suppressedTotal.WithLabelValues("prefix").Inc()
		return true
	}
	return false
}
