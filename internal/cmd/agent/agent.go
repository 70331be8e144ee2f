// Package agent parses agent command flags and wires the game bridge,
// event log, ingestion handlers, and MCP server together.
package agent

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game/bridge"
	"github.com/voxelbot/voxelbot/internal/ingest"
	"github.com/voxelbot/voxelbot/internal/mcp"
	"github.com/voxelbot/voxelbot/internal/platform/config"
)

// Config holds agent command configuration.
type Config struct {
	BridgeAddr  string `env:"VOXELBOT_BRIDGE_ADDR"  envDefault:"localhost:9090"`
	MetricsAddr string `env:"VOXELBOT_METRICS_ADDR" envDefault:"localhost:9091"`
	RulesPath   string `env:"VOXELBOT_RULES_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.BridgeAddr, "bridge-addr", cfg.BridgeAddr, "game bridge address")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "metrics HTTP address (empty disables)")
	fs.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "path to the rules YAML file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run connects to the game bridge and serves MCP on stdio until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	enabled, err := enabledTypes(rules.Events.EnabledTypes)
	if err != nil {
		return err
	}

	conn, err := bridge.Dial(cfg.BridgeAddr)
	if err != nil {
		return fmt.Errorf("dial bridge: %w", err)
	}
	defer conn.Close()

	store := event.NewStore(rules.Events.BufferSize)
	if enabled != nil {
		store.SetEnabledTypes(enabled)
	}

	if _, err := ingest.Bootstrap(conn, store, rules.Commands, rules.ChatFilter); err != nil {
		return fmt.Errorf("register handlers: %w", err)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		defer srv.Close()
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	log.Printf("agent connected to bridge at %s", cfg.BridgeAddr)
	return mcp.New(store, conn).Serve(ctx)
}

// enabledTypes validates rule type names and returns nil for an empty list,
// which leaves the store's default policy in place.
func enabledTypes(names []string) ([]event.Type, error) {
	if len(names) == 0 {
		return nil, nil
	}
	known := make(map[event.Type]struct{})
	for _, t := range event.Types() {
		known[t] = struct{}{}
	}
	types := make([]event.Type, 0, len(names))
	for _, name := range names {
		t := event.Type(name)
		if _, ok := known[t]; !ok {
			return nil, fmt.Errorf("unknown event type in rules: %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}
