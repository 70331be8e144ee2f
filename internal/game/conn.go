// Package game defines the boundary to the external game connection: the
// notification channels the scripted client emits and the synchronous world
// accessors the agent reads at event-construction time.
package game

// Player is the connection's record for a player on the roster.
type Player struct {
	Username string
	// DisplayName is empty when the connection did not supply one.
	DisplayName string
}

// Entity is the connection's record for a world entity.
type Entity struct {
	ID int64
	// Kind is the entity kind (player, mob, object), empty when unknown.
	Kind string
	// Name is the username or display name, empty when the entity has none.
	Name string
	// HasPosition reports whether X, Y and Z are meaningful.
	HasPosition bool
	X, Y, Z     float64
}

// ItemStack is one stack of items carried by a drop or collect notification.
type ItemStack struct {
	ItemID int32
	Count  int
}

// Item is the registry metadata for an item id.
type Item struct {
	ID   int32
	Name string
}

// Vitals is an instantaneous snapshot of the agent's health state.
type Vitals struct {
	Health     float64
	Food       float64
	Saturation float64
}

// ChatMessage is a raw chat notification.
type ChatMessage struct {
	Username string
	Text     string
}

// Conn is the live game connection. Implementations deliver notification
// callbacks sequentially from a single dispatch goroutine, so no two
// callbacks run concurrently; accessors may be called from any goroutine.
//
// Subscriptions are permanent: there is no unregister path.
type Conn interface {
	// Notification channels, one per raw event kind.
	OnChat(func(msg ChatMessage))
	OnPlayerJoined(func(p Player))
	OnPlayerLeft(func(p Player))
	OnDeath(func())
	OnRespawn(func())
	OnRainChanged(func())
	OnKicked(func(reason string))
	OnSpawnReset(func())
	OnHealthChanged(func())
	OnEntityHurt(func(e Entity))
	OnEntityDead(func(e Entity))
	OnPlayerCollect(func(collector Entity, items []ItemStack))
	OnItemDrop(func(e Entity, items []ItemStack))
	OnForcedMove(func())
	OnEnd(func(reason string))
	OnError(func(err error))

	// World accessors, sampled at event-construction time.
	WorldTick() int64
	Self() (Entity, bool)
	Vitals() Vitals
	IsRaining() bool
	ThunderLevel() float64
	Item(id int32) (Item, bool)

	// SendChat sends a chat message back into the game, used for in-band
	// command feedback.
	SendChat(text string)
}
