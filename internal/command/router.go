package command

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "voxelbot",
	Subsystem: "commands",
	Name:      "dispatched_total",
	Help:      "Command dispatch outcomes, by command name and outcome.",
}, []string{"command", "outcome"})

// Router parses privileged chat messages, gates them by admin identity and
// dispatches them to registered commands.
type Router struct {
	cfg    Config
	admins map[string]struct{}
	cmds   map[string]Command
	env    Env

	wg sync.WaitGroup
}

// NewRouter builds a router over the given command list. Commands are keyed
// by lowercased name; on a name collision the last registered command wins.
// Commands implementing Configurable receive cfg once.
func NewRouter(cfg Config, env Env, cmds []Command) *Router {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	r := &Router{
		cfg:    cfg,
		admins: make(map[string]struct{}, len(cfg.Admins)),
		cmds:   make(map[string]Command, len(cmds)),
	}
	for _, admin := range cfg.Admins {
		r.admins[strings.ToLower(admin)] = struct{}{}
	}
	for _, cmd := range cmds {
		r.cmds[strings.ToLower(cmd.Name())] = cmd
		if c, ok := cmd.(Configurable); ok {
			c.SetConfig(cfg)
		}
	}
	env.Commands = r.commandList
	r.env = env
	return r
}

// Prefix returns the effective command prefix.
func (r *Router) Prefix() string {
	return r.cfg.Prefix
}

// HandleChat inspects a chat message and reports whether it was consumed as a
// command. A consumed message must not proceed to filtering or event
// emission. The consume decision is made synchronously; execution of a known
// command happens on its own goroutine so a slow command never stalls
// ingestion.
func (r *Router) HandleChat(username, text string) bool {
	if !r.cfg.Enabled {
		return false
	}
	if _, ok := r.admins[strings.ToLower(username)]; !ok {
		return false
	}
	if !strings.HasPrefix(text, r.cfg.Prefix) {
		return false
	}

	fields := strings.Fields(strings.TrimPrefix(text, r.cfg.Prefix))
	if len(fields) == 0 {
		// A bare prefix carries no command name; consumed so the marker
		// never becomes a chat event.
		return true
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	cmd, ok := r.cmds[name]
	if !ok {
		log.Printf("command: unknown command %q from %s", name, username)
		dispatchTotal.WithLabelValues(name, "unknown").Inc()
		r.sendChat("Unknown command: " + name)
		return true
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.dispatch(cmd, name, args, username)
	}()
	return true
}

// Wait blocks until all in-flight command executions finish. Used by tests
// and by graceful shutdown.
func (r *Router) Wait() {
	r.wg.Wait()
}

// dispatch executes one command, containing panics and errors at this
// boundary so they never reach the chat handler.
func (r *Router) dispatch(cmd Command, name string, args []string, username string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("command: %q panicked with args %v: %v", name, args, rec)
			dispatchTotal.WithLabelValues(name, "panic").Inc()
			r.sendChat("Command failed: " + name)
		}
	}()

	res, err := cmd.Execute(context.Background(), args, r.env)
	if err != nil {
		log.Printf("command: %q failed with args %v: %v", name, args, err)
		dispatchTotal.WithLabelValues(name, "error").Inc()
		r.sendChat("Command failed: " + name)
		return
	}

	log.Printf("command: %q from %s args=%v success=%v message=%q", name, username, args, res.Success, res.Message)
	dispatchTotal.WithLabelValues(name, "ok").Inc()
	if r.cfg.EchoResults && res.Message != "" {
		r.sendChat(res.Message)
	}
}

func (r *Router) sendChat(text string) {
	if r.env.Conn != nil {
		r.env.Conn.SendChat(text)
	}
}

// commandList returns the registered commands sorted by name.
func (r *Router) commandList() []Command {
	out := make([]Command, 0, len(r.cmds))
	for _, cmd := range r.cmds {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name()) < strings.ToLower(out[j].Name())
	})
	return out
}
