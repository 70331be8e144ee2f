// Package event defines the canonical event record produced by the agent's
// ingestion layer and the bounded in-memory log that stores it.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of a canonical event.
type Type string

// Chat and roster events.
const (
	// TypeChat records a chat message that survived the interception pipeline.
	TypeChat Type = "chat"
	// TypePlayerJoin records a player joining the world.
	TypePlayerJoin Type = "player-join"
	// TypePlayerLeave records a player leaving the world.
	TypePlayerLeave Type = "player-leave"
)

// Agent lifecycle events.
const (
	// TypeDeath records the agent dying.
	TypeDeath Type = "death"
	// TypeRespawn records the agent respawning.
	TypeRespawn Type = "respawn"
	// TypeKicked records the agent being kicked from the server.
	TypeKicked Type = "kicked"
	// TypeSpawnReset records the world spawn point changing.
	TypeSpawnReset Type = "spawn-reset"
	// TypeForcedMove records the server teleporting the agent.
	TypeForcedMove Type = "forced-move"
	// TypeConnectionEnd records the game connection closing.
	TypeConnectionEnd Type = "connection-end"
	// TypeError records a connection-level error.
	TypeError Type = "error"
)

// World and combat events.
const (
	// TypeWeatherChange records a weather transition.
	TypeWeatherChange Type = "weather-change"
	// TypeHealthUpdate records a change to the agent's vitals.
	TypeHealthUpdate Type = "health-update"
	// TypeEntityHurt records a nearby entity taking damage.
	TypeEntityHurt Type = "entity-hurt"
	// TypeEntityDeath records a nearby entity dying.
	TypeEntityDeath Type = "entity-death"
	// TypePlayerCollect records an entity picking up an item stack.
	TypePlayerCollect Type = "player-collect"
	// TypeItemDrop records an item stack appearing on the ground.
	TypeItemDrop Type = "item-drop"
)

// Types lists every event type the agent can produce, in a stable order.
// The order is the registration order of the corresponding handlers.
func Types() []Type {
	return []Type{
		TypeChat,
		TypePlayerJoin,
		TypePlayerLeave,
		TypeDeath,
		TypeRespawn,
		TypeWeatherChange,
		TypeKicked,
		TypeSpawnReset,
		TypeHealthUpdate,
		TypeEntityHurt,
		TypeEntityDeath,
		TypePlayerCollect,
		TypeItemDrop,
		TypeForcedMove,
		TypeConnectionEnd,
		TypeError,
	}
}

// Event is an immutable record in the event log. Handlers construct an event
// once and never mutate it after it has been appended.
type Event struct {
	// ID is a unique identifier assigned at construction.
	ID string `json:"id"`
	// Type identifies the kind of event.
	Type Type `json:"type"`
	// GameTick is the world-age counter sampled at construction time. It is
	// monotonic in theory but may regress if the connection resets its counter.
	GameTick int64 `json:"gameTick"`
	// Timestamp is the wall-clock capture time, independent of GameTick.
	Timestamp time.Time `json:"timestamp"`
	// Payload holds the type-specific attributes; its concrete type is the
	// payload struct documented for the event type in payload.go.
	Payload any `json:"payload,omitempty"`
}

// Summary is the reduced form of an event returned when callers opt out of
// payload details to keep responses small.
type Summary struct {
	Type     Type  `json:"type"`
	GameTick int64 `json:"gameTick"`
}

// New constructs an event of the given type, stamping a fresh ID, the supplied
// game tick and the supplied wall-clock timestamp.
func New(t Type, tick int64, ts time.Time, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		GameTick:  tick,
		Timestamp: ts,
		Payload:   payload,
	}
}

// Summarize reduces events to their {type, gameTick} form.
func Summarize(events []Event) []Summary {
	if events == nil {
		return nil
	}
	out := make([]Summary, len(events))
	for i, ev := range events {
		out[i] = Summary{Type: ev.Type, GameTick: ev.GameTick}
	}
	return out
}
