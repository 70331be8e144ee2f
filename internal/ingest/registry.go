package ingest

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/voxelbot/voxelbot/internal/chatfilter"
	"github.com/voxelbot/voxelbot/internal/command"
	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game"
)

// ErrAlreadyRegistered is returned when handler registration is attempted a
// second time, either on the same registry or for a connection Bootstrap has
// already wired.
var ErrAlreadyRegistered = errors.New("ingest: handlers already registered")

// ChatDeps are the extra collaborators only the chat handler receives.
type ChatDeps struct {
	Router CommandRouter
	Filter ContentFilter
}

// factory builds one handler variant. Keeping construction behind a
// per-variant factory means only the chat factory ever sees the chat
// collaborators; no other constructor takes unused parameters.
type factory struct {
	eventType event.Type
	build     func(b base) Handler
}

func factories(chat ChatDeps) []factory {
	return []factory{
		{event.TypeChat, func(b base) Handler { return newChatHandler(b, chat.Router, chat.Filter) }},
		{event.TypePlayerJoin, func(b base) Handler { return &playerJoinHandler{b} }},
		{event.TypePlayerLeave, func(b base) Handler { return &playerLeaveHandler{b} }},
		{event.TypeDeath, func(b base) Handler { return &deathHandler{b} }},
		{event.TypeRespawn, func(b base) Handler { return &respawnHandler{b} }},
		{event.TypeWeatherChange, func(b base) Handler { return &weatherHandler{b} }},
		{event.TypeKicked, func(b base) Handler { return &kickedHandler{b} }},
		{event.TypeSpawnReset, func(b base) Handler { return &spawnResetHandler{b} }},
		{event.TypeHealthUpdate, func(b base) Handler { return &healthHandler{b} }},
		{event.TypeEntityHurt, func(b base) Handler { return &entityHurtHandler{b} }},
		{event.TypeEntityDeath, func(b base) Handler { return &entityDeathHandler{b} }},
		{event.TypePlayerCollect, func(b base) Handler { return &playerCollectHandler{b} }},
		{event.TypeItemDrop, func(b base) Handler { return &itemDropHandler{b} }},
		{event.TypeForcedMove, func(b base) Handler { return &forcedMoveHandler{b} }},
		{event.TypeConnectionEnd, func(b base) Handler { return &connectionEndHandler{b} }},
		{event.TypeError, func(b base) Handler { return &errorHandler{b} }},
	}
}

// Registry owns the ordered set of handler instances for one connection.
type Registry struct {
	handlers []Handler

	mu         sync.Mutex
	registered bool
}

// NewRegistry constructs every handler variant with the shared dependencies,
// injecting the chat collaborators into the chat variant only.
func NewRegistry(deps Deps, chat ChatDeps) *Registry {
	b := base{deps: deps}
	fs := factories(chat)
	handlers := make([]Handler, 0, len(fs))
	for _, f := range fs {
		handlers = append(handlers, f.build(b))
	}
	return &Registry{handlers: handlers}
}

// Handlers returns the handler instances in registration order.
func (r *Registry) Handlers() []Handler {
	return r.handlers
}

// RegisterAll subscribes every handler to its notification channel, in list
// order, exactly once. A second call returns ErrAlreadyRegistered so a
// repeated bootstrap cannot double-subscribe. Any registration failure is
// fatal: no partial handler set is left behind for the caller to run with.
func (r *Registry) RegisterAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registered {
		return ErrAlreadyRegistered
	}
	for _, h := range r.handlers {
		if err := h.Register(); err != nil {
			return fmt.Errorf("register %s handler: %w", h.EventType(), err)
		}
		log.Printf("ingest: registered %s handler", h.EventType())
	}
	r.registered = true
	return nil
}

// bootstrapped tracks connections that already carry the handler set, so a
// repeated Bootstrap cannot double-subscribe the same channels.
var (
	bootstrapMu  sync.Mutex
	bootstrapped = make(map[game.Conn]struct{})
)

// Bootstrap is the single integration seam the rest of the agent calls after
// the connection is established: it wires the command router, the content
// filter and the full handler set to the connection and the store. A second
// Bootstrap for the same connection returns ErrAlreadyRegistered, and a
// registration failure aborts startup.
func Bootstrap(conn game.Conn, store *event.Store, cmdCfg command.Config, filterCfg chatfilter.Config) (*Registry, error) {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()
	if _, ok := bootstrapped[conn]; ok {
		return nil, fmt.Errorf("bootstrap connection: %w", ErrAlreadyRegistered)
	}

	router := command.NewRouter(cmdCfg, command.Env{Conn: conn, Store: store}, command.Builtins())
	filter, err := chatfilter.New(filterCfg, router.Prefix())
	if err != nil {
		return nil, fmt.Errorf("build content filter: %w", err)
	}

	deps := Deps{
		Conn:     conn,
		Disabled: store.Disabled,
		Append:   store.Append,
		Tick:     conn.WorldTick,
		Now:      time.Now,
	}
	registry := NewRegistry(deps, ChatDeps{Router: router, Filter: filter})
	if err := registry.RegisterAll(); err != nil {
		return nil, err
	}
	bootstrapped[conn] = struct{}{}
	return registry, nil
}
