// Package ingest converts raw game-connection notifications into canonical
// events and forwards them into the event log. One handler exists per raw
// notification channel; the chat handler additionally runs an ordered
// interception pipeline (command router, then content filter) before a chat
// message may become an event.
package ingest

import (
	"log"
	"math"
	"time"

	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game"
)

// Handler is one translator from a raw notification channel to one canonical
// event type.
type Handler interface {
	// EventType declares which canonical type this handler produces.
	EventType() event.Type
	// Register subscribes the handler's callback to its notification
	// channel. The subscription is permanent for the process lifetime.
	Register() error
}

// Deps are the collaborators every handler variant receives. The chat
// variant takes extra collaborators through its own constructor; no other
// variant sees them.
type Deps struct {
	Conn game.Conn
	// Disabled reports whether a canonical type is currently rejected.
	// Consulted before an event is constructed, so a disabled type costs
	// nothing and never reaches the store.
	Disabled func(event.Type) bool
	// Append forwards a constructed event into the store.
	Append func(event.Event)
	// Tick samples the world-age counter at event-construction time.
	Tick func() int64
	// Now samples the wall clock at event-construction time.
	Now func() time.Time
}

// base carries the shared dependencies and event-construction helper.
type base struct {
	deps Deps
}

// emit constructs and appends an event of type t unless t is disabled. The
// temporal envelope (tick, timestamp) is stamped here so every event carries
// it consistently regardless of source.
func (b base) emit(t event.Type, payload any) {
	if b.deps.Disabled(t) {
		return
	}
	b.deps.Append(event.New(t, b.deps.Tick(), b.deps.Now(), payload))
}

// guard runs a notification callback, converting a panic into a logged
// failure. Nothing may propagate back into the connection's dispatch loop.
func guard(t event.Type, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("ingest: %s handler panicked: %v", t, rec)
		}
	}()
	fn()
}

// round2 rounds a coordinate to two decimal places at translation time so
// stored events are display-ready.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// entityPosition extracts a rounded position from an entity record, nil when
// the record carries no coordinates.
func entityPosition(e game.Entity) *event.Position {
	if !e.HasPosition {
		return nil
	}
	return &event.Position{X: round2(e.X), Y: round2(e.Y), Z: round2(e.Z)}
}

// selfPosition samples the agent's own position, nil when the connection has
// no entity record for the agent.
func (b base) selfPosition() *event.Position {
	self, ok := b.deps.Conn.Self()
	if !ok {
		return nil
	}
	return entityPosition(self)
}

// entityRef translates an entity record into a payload reference. A missing
// name is carried as nil rather than a placeholder.
func entityRef(e game.Entity) event.EntityRef {
	ref := event.EntityRef{ID: e.ID, Kind: e.Kind, Position: entityPosition(e)}
	if e.Name != "" {
		name := e.Name
		ref.Name = &name
	}
	return ref
}

// resolveStacks resolves item ids against the connection's item registry.
// Unknown ids degrade to the name "unknown" instead of failing the event.
func resolveStacks(conn game.Conn, stacks []game.ItemStack) []event.Stack {
	out := make([]event.Stack, 0, len(stacks))
	for _, s := range stacks {
		name := "unknown"
		if item, ok := conn.Item(s.ItemID); ok {
			name = item.Name
		}
		out = append(out, event.Stack{ItemID: s.ItemID, Name: name, Count: s.Count})
	}
	return out
}
