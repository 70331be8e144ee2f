package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game/gametest"
)

// testCommand is a scriptable command for router tests.
type testCommand struct {
	name     string
	execute  func(args []string, env Env) (Result, error)
	cfg      *Config
	executed chan []string
}

func (c *testCommand) Name() string        { return c.name }
func (c *testCommand) Description() string { return "test command" }
func (c *testCommand) Help() string        { return c.name }

func (c *testCommand) Execute(_ context.Context, args []string, env Env) (Result, error) {
	if c.executed != nil {
		c.executed <- args
	}
	if c.execute != nil {
		return c.execute(args, env)
	}
	return Result{Success: true}, nil
}

func (c *testCommand) SetConfig(cfg Config) {
	if c.cfg != nil {
		*c.cfg = cfg
	}
}

func newTestRouter(cfg Config, cmds ...Command) (*Router, *gametest.FakeConn) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	return NewRouter(cfg, Env{Conn: conn, Store: store}, cmds), conn
}

func TestRouter_EligibilityGating(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		username string
		text     string
		want     bool
	}{
		{"admin with prefix is consumed", true, "admin", "!ping", true},
		{"admin casing is ignored", true, "ADMIN", "!ping", true},
		{"disabled subsystem falls through", false, "admin", "!ping", false},
		{"non-admin falls through", true, "mallory", "!ping", false},
		{"missing prefix falls through", true, "admin", "ping", false},
		{"bare prefix is consumed", true, "admin", "!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &testCommand{name: "ping", executed: make(chan []string, 1)}
			r, _ := newTestRouter(Config{Enabled: tt.enabled, Admins: []string{"admin"}}, cmd)
			if got := r.HandleChat(tt.username, tt.text); got != tt.want {
				t.Errorf("HandleChat(%q, %q) = %v, want %v", tt.username, tt.text, got, tt.want)
			}
			r.Wait()
		})
	}
}

func TestRouter_ParsesNameAndArguments(t *testing.T) {
	cmd := &testCommand{name: "follow", executed: make(chan []string, 1)}
	r, _ := newTestRouter(Config{Enabled: true, Admins: []string{"admin"}}, cmd)

	if !r.HandleChat("admin", "!FOLLOW alice  fast") {
		t.Fatal("expected message to be consumed")
	}
	r.Wait()

	args := <-cmd.executed
	if len(args) != 2 || args[0] != "alice" || args[1] != "fast" {
		t.Fatalf("args = %v, want [alice fast]", args)
	}
}

func TestRouter_UnknownCommandConsumedWithFeedback(t *testing.T) {
	r, conn := newTestRouter(Config{Enabled: true, Admins: []string{"admin"}})

	if !r.HandleChat("admin", "!nosuchthing") {
		t.Fatal("unknown command must still be consumed")
	}
	sent := conn.SentMessages()
	if len(sent) != 1 || !strings.Contains(sent[0], "nosuchthing") {
		t.Fatalf("feedback = %v, want one unknown-command message", sent)
	}
}

func TestRouter_ExecutionErrorIsContained(t *testing.T) {
	cmd := &testCommand{
		name: "broken",
		execute: func([]string, Env) (Result, error) {
			return Result{}, errors.New("boom")
		},
	}
	r, conn := newTestRouter(Config{Enabled: true, Admins: []string{"admin"}}, cmd)

	if !r.HandleChat("admin", "!broken") {
		t.Fatal("expected message to be consumed")
	}
	r.Wait()

	sent := conn.SentMessages()
	if len(sent) != 1 || !strings.Contains(sent[0], "broken") {
		t.Fatalf("feedback = %v, want one generic failure message", sent)
	}
}

func TestRouter_PanicIsContained(t *testing.T) {
	cmd := &testCommand{
		name: "explode",
		execute: func([]string, Env) (Result, error) {
			panic("kaboom")
		},
	}
	r, conn := newTestRouter(Config{Enabled: true, Admins: []string{"admin"}}, cmd)

	if !r.HandleChat("admin", "!explode") {
		t.Fatal("expected message to be consumed")
	}
	r.Wait()

	sent := conn.SentMessages()
	if len(sent) != 1 || !strings.Contains(sent[0], "explode") {
		t.Fatalf("feedback = %v, want one generic failure message", sent)
	}

	// The router stays usable after a panic.
	if !r.HandleChat("admin", "!explode") {
		t.Fatal("router must keep consuming after a contained panic")
	}
	r.Wait()
}

func TestRouter_EchoResults(t *testing.T) {
	cmd := &testCommand{
		name: "greet",
		execute: func([]string, Env) (Result, error) {
			return Result{Success: true, Message: "hello"}, nil
		},
	}

	t.Run("echo enabled", func(t *testing.T) {
		r, conn := newTestRouter(Config{Enabled: true, Admins: []string{"admin"}, EchoResults: true}, cmd)
		r.HandleChat("admin", "!greet")
		r.Wait()
		if sent := conn.SentMessages(); len(sent) != 1 || sent[0] != "hello" {
			t.Fatalf("sent = %v, want [hello]", sent)
		}
	})

	t.Run("echo disabled", func(t *testing.T) {
		r, conn := newTestRouter(Config{Enabled: true, Admins: []string{"admin"}}, cmd)
		r.HandleChat("admin", "!greet")
		r.Wait()
		if sent := conn.SentMessages(); len(sent) != 0 {
			t.Fatalf("sent = %v, want none", sent)
		}
	})
}

func TestNewRouter_RegistrationSemantics(t *testing.T) {
	var gotCfg Config
	first := &testCommand{name: "Dup", cfg: &gotCfg}
	second := &testCommand{name: "dup", executed: make(chan []string, 1)}

	cfg := Config{Enabled: true, Admins: []string{"admin"}, EchoResults: true}
	r, _ := newTestRouter(cfg, first, second)

	if gotCfg.Prefix != DefaultPrefix || !gotCfg.EchoResults {
		t.Errorf("SetConfig received %+v, want effective config with default prefix", gotCfg)
	}

	// Last registration wins on a name collision.
	r.HandleChat("admin", "!dup")
	r.Wait()
	select {
	case <-second.executed:
	default:
		t.Fatal("collision should dispatch to the last registered command")
	}
}

func TestRouter_CustomPrefix(t *testing.T) {
	cmd := &testCommand{name: "ping", executed: make(chan []string, 1)}
	r, _ := newTestRouter(Config{Enabled: true, Prefix: "#", Admins: []string{"admin"}}, cmd)

	if r.Prefix() != "#" {
		t.Fatalf("Prefix() = %q, want #", r.Prefix())
	}
	if r.HandleChat("admin", "!ping") {
		t.Error("default prefix must not be honored when a custom one is set")
	}
	if !r.HandleChat("admin", "#ping") {
		t.Error("custom prefix should be consumed")
	}
	r.Wait()
}
