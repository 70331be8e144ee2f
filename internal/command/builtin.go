package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/voxelbot/voxelbot/internal/event"
)

// Builtins returns the compile-time command registry. New commands are added
// here; there is no runtime discovery.
func Builtins() []Command {
	return []Command{
		helpCommand{},
		statusCommand{},
		eventsCommand{},
		sayCommand{},
		muteCommand{},
		unmuteCommand{},
	}
}

type helpCommand struct{}

func (helpCommand) Name() string        { return "help" }
func (helpCommand) Description() string { return "List commands or show usage for one" }
func (helpCommand) Help() string        { return "help [command]" }

func (helpCommand) Execute(_ context.Context, args []string, env Env) (Result, error) {
	cmds := env.Commands()
	if len(args) > 0 {
		want := strings.ToLower(args[0])
		for _, cmd := range cmds {
			if strings.ToLower(cmd.Name()) == want {
				return Result{Success: true, Message: cmd.Help()}, nil
			}
		}
		return Result{Success: false, Message: "No such command: " + want}, nil
	}

	names := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		names = append(names, cmd.Name())
	}
	return Result{Success: true, Message: "Commands: " + strings.Join(names, ", ")}, nil
}

type statusCommand struct{}

func (statusCommand) Name() string        { return "status" }
func (statusCommand) Description() string { return "Report tick, vitals and position" }
func (statusCommand) Help() string        { return "status" }

func (statusCommand) Execute(_ context.Context, _ []string, env Env) (Result, error) {
	tick := env.Conn.WorldTick()
	vitals := env.Conn.Vitals()
	msg := fmt.Sprintf("tick=%d health=%.1f food=%.1f", tick, vitals.Health, vitals.Food)
	if self, ok := env.Conn.Self(); ok && self.HasPosition {
		msg += fmt.Sprintf(" pos=(%.1f, %.1f, %.1f)", self.X, self.Y, self.Z)
	}
	return Result{Success: true, Message: msg, Data: vitals}, nil
}

type eventsCommand struct{}

func (eventsCommand) Name() string        { return "events" }
func (eventsCommand) Description() string { return "Summarize the event log" }
func (eventsCommand) Help() string        { return "events" }

func (eventsCommand) Execute(_ context.Context, _ []string, env Env) (Result, error) {
	stats := env.Store.Stats()
	if stats.Total == 0 {
		return Result{Success: true, Message: "Event log is empty"}, nil
	}

	parts := make([]string, 0, len(stats.ByType))
	for t, n := range stats.ByType {
		parts = append(parts, fmt.Sprintf("%s:%d", t, n))
	}
	sort.Strings(parts)
	msg := fmt.Sprintf("%d events (ticks %d..%d): %s",
		stats.Total, *stats.MinTick, *stats.MaxTick, strings.Join(parts, " "))
	return Result{Success: true, Message: msg, Data: stats}, nil
}

type sayCommand struct{}

func (sayCommand) Name() string        { return "say" }
func (sayCommand) Description() string { return "Send a chat message as the agent" }
func (sayCommand) Help() string        { return "say <text>" }

func (sayCommand) Execute(_ context.Context, args []string, env Env) (Result, error) {
	if len(args) == 0 {
		return Result{Success: false, Message: "Usage: say <text>"}, nil
	}
	env.Conn.SendChat(strings.Join(args, " "))
	return Result{Success: true}, nil
}

type muteCommand struct{}

func (muteCommand) Name() string        { return "mute" }
func (muteCommand) Description() string { return "Disable ingestion of an event type" }
func (muteCommand) Help() string        { return "mute <event-type>" }

func (muteCommand) Execute(_ context.Context, args []string, env Env) (Result, error) {
	if len(args) != 1 {
		return Result{Success: false, Message: "Usage: mute <event-type>"}, nil
	}
	t := event.Type(args[0])
	if !knownType(t) {
		return Result{Success: false, Message: "Unknown event type: " + args[0]}, nil
	}
	enabled := env.Store.EnabledTypes()
	kept := enabled[:0]
	for _, e := range enabled {
		if e != t {
			kept = append(kept, e)
		}
	}
	env.Store.SetEnabledTypes(kept)
	return Result{Success: true, Message: "Muted " + args[0]}, nil
}

type unmuteCommand struct{}

func (unmuteCommand) Name() string        { return "unmute" }
func (unmuteCommand) Description() string { return "Re-enable ingestion of an event type" }
func (unmuteCommand) Help() string        { return "unmute <event-type>" }

func (unmuteCommand) Execute(_ context.Context, args []string, env Env) (Result, error) {
	if len(args) != 1 {
		return Result{Success: false, Message: "Usage: unmute <event-type>"}, nil
	}
	t := event.Type(args[0])
	if !knownType(t) {
		return Result{Success: false, Message: "Unknown event type: " + args[0]}, nil
	}
	if env.Store.Disabled(t) {
		env.Store.SetEnabledTypes(append(env.Store.EnabledTypes(), t))
	}
	return Result{Success: true, Message: "Unmuted " + args[0]}, nil
}

func knownType(t event.Type) bool {
	for _, known := range event.Types() {
		if known == t {
			return true
		}
	}
	return false
}
