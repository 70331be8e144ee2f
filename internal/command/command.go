// Package command intercepts privileged chat-borne control commands before
// they reach the event log. Commands are registered at compile time from an
// explicit list; there is no runtime discovery of command code.
package command

import (
	"context"

	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game"
)

// DefaultPrefix marks chat messages as command invocations when no prefix is
// configured.
const DefaultPrefix = "!"

// Config holds the shared command subsystem configuration.
type Config struct {
	// Enabled turns command interception on.
	Enabled bool `yaml:"enabled"`
	// Prefix is the character sequence that marks a command message.
	// Defaults to DefaultPrefix.
	Prefix string `yaml:"prefix"`
	// Admins lists sender usernames allowed to issue commands. Matching is
	// case-insensitive.
	Admins []string `yaml:"admins"`
	// EchoResults sends a command's result message back into game chat.
	// Failures are always reported in-band regardless of this flag.
	EchoResults bool `yaml:"echo_results"`
}

// Result is the structured outcome of a command execution.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Env gives command implementations access to the agent's collaborators.
type Env struct {
	Conn  game.Conn
	Store *event.Store
	// Commands enumerates the registered commands, sorted by name. Populated
	// by the router.
	Commands func() []Command
}

// Command is one privileged chat command. Arguments are whitespace-delimited
// tokens with no quoting grammar.
type Command interface {
	// Name is the invocation keyword, matched case-insensitively.
	Name() string
	// Description is a one-line summary shown in command listings.
	Description() string
	// Execute runs the command. A returned error or panic is reported
	// in-band as a generic failure and never propagates to the chat handler.
	Execute(ctx context.Context, args []string, env Env) (Result, error)
	// Help returns usage text for the command.
	Help() string
}

// Configurable is implemented by commands that want the shared configuration.
// SetConfig is invoked once at registration time.
type Configurable interface {
	SetConfig(cfg Config)
}
