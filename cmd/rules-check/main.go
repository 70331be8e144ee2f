// Command rules-check validates a rules YAML file without starting the agent.
package main

import (
	"flag"
	"fmt"

	"github.com/voxelbot/voxelbot/internal/chatfilter"
	"github.com/voxelbot/voxelbot/internal/command"
	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/platform/config"
)

func main() {
	path := flag.String("rules", "", "path to the rules YAML file")
	flag.Parse()

	if *path == "" {
		config.Exitf("missing -rules flag")
	}

	rules, err := config.LoadRules(*path)
	if err != nil {
		config.Exitf("load rules: %v", err)
	}

	prefix := rules.Commands.Prefix
	if prefix == "" {
		prefix = command.DefaultPrefix
	}
	if _, err := chatfilter.New(rules.ChatFilter, prefix); err != nil {
		config.Exitf("chat filter: %v", err)
	}

	known := make(map[event.Type]struct{})
	for _, t := range event.Types() {
		known[t] = struct{}{}
	}
	for _, name := range rules.Events.EnabledTypes {
		if _, ok := known[event.Type(name)]; !ok {
			config.Exitf("unknown event type: %q", name)
		}
	}

	fmt.Printf("%s: ok\n", *path)
}
