// Package gametest provides a scriptable in-memory game.Conn for tests.
package gametest

import (
	"sync"

	"github.com/voxelbot/voxelbot/internal/game"
)

// FakeConn implements game.Conn with fire methods that invoke subscribed
// callbacks synchronously on the caller's goroutine. State fields are set
// directly by tests before firing.
type FakeConn struct {
	mu sync.Mutex

	Tick         int64
	SelfEntity   game.Entity
	HasSelf      bool
	VitalsState  game.Vitals
	Raining      bool
	Thunder      float64
	ItemRegistry map[int32]game.Item

	// Sent records every SendChat call in order.
	Sent []string

	chatSubs          []func(game.ChatMessage)
	playerJoinedSubs  []func(game.Player)
	playerLeftSubs    []func(game.Player)
	deathSubs         []func()
	respawnSubs       []func()
	rainSubs          []func()
	kickedSubs        []func(string)
	spawnResetSubs    []func()
	healthSubs        []func()
	entityHurtSubs    []func(game.Entity)
	entityDeadSubs    []func(game.Entity)
	playerCollectSubs []func(game.Entity, []game.ItemStack)
	itemDropSubs      []func(game.Entity, []game.ItemStack)
	forcedMoveSubs    []func()
	endSubs           []func(string)
	errorSubs         []func(error)
}

// NewFakeConn creates a fake connection with an empty item registry.
func NewFakeConn() *FakeConn {
	return &FakeConn{ItemRegistry: make(map[int32]game.Item)}
}

func (f *FakeConn) OnChat(fn func(game.ChatMessage)) { f.chatSubs = append(f.chatSubs, fn) }
func (f *FakeConn) OnPlayerJoined(fn func(game.Player)) {
	f.playerJoinedSubs = append(f.playerJoinedSubs, fn)
}
func (f *FakeConn) OnPlayerLeft(fn func(game.Player)) {
	f.playerLeftSubs = append(f.playerLeftSubs, fn)
}
func (f *FakeConn) OnDeath(fn func())              { f.deathSubs = append(f.deathSubs, fn) }
func (f *FakeConn) OnRespawn(fn func())            { f.respawnSubs = append(f.respawnSubs, fn) }
func (f *FakeConn) OnRainChanged(fn func())        { f.rainSubs = append(f.rainSubs, fn) }
func (f *FakeConn) OnKicked(fn func(string))       { f.kickedSubs = append(f.kickedSubs, fn) }
func (f *FakeConn) OnSpawnReset(fn func())         { f.spawnResetSubs = append(f.spawnResetSubs, fn) }
func (f *FakeConn) OnHealthChanged(fn func())      { f.healthSubs = append(f.healthSubs, fn) }
func (f *FakeConn) OnEntityHurt(fn func(game.Entity)) {
	f.entityHurtSubs = append(f.entityHurtSubs, fn)
}
func (f *FakeConn) OnEntityDead(fn func(game.Entity)) {
	f.entityDeadSubs = append(f.entityDeadSubs, fn)
}
func (f *FakeConn) OnPlayerCollect(fn func(game.Entity, []game.ItemStack)) {
	f.playerCollectSubs = append(f.playerCollectSubs, fn)
}
func (f *FakeConn) OnItemDrop(fn func(game.Entity, []game.ItemStack)) {
	f.itemDropSubs = append(f.itemDropSubs, fn)
}
func (f *FakeConn) OnForcedMove(fn func()) { f.forcedMoveSubs = append(f.forcedMoveSubs, fn) }
func (f *FakeConn) OnEnd(fn func(string))  { f.endSubs = append(f.endSubs, fn) }
func (f *FakeConn) OnError(fn func(error)) { f.errorSubs = append(f.errorSubs, fn) }

func (f *FakeConn) WorldTick() int64 { return f.Tick }

func (f *FakeConn) Self() (game.Entity, bool) { return f.SelfEntity, f.HasSelf }

func (f *FakeConn) Vitals() game.Vitals { return f.VitalsState }

func (f *FakeConn) IsRaining() bool { return f.Raining }

func (f *FakeConn) ThunderLevel() float64 { return f.Thunder }

func (f *FakeConn) Item(id int32) (game.Item, bool) {
	item, ok := f.ItemRegistry[id]
	return item, ok
}

func (f *FakeConn) SendChat(text string) {
	f.mu.Lock()
	f.Sent = append(f.Sent, text)
	f.mu.Unlock()
}

// SentMessages returns a copy of everything sent via SendChat.
func (f *FakeConn) SentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Sent))
	copy(out, f.Sent)
	return out
}

// SubscriberCount reports the total number of registered callbacks across
// all channels, used to assert registration happened exactly once.
func (f *FakeConn) SubscriberCount() int {
	return len(f.chatSubs) + len(f.playerJoinedSubs) + len(f.playerLeftSubs) +
		len(f.deathSubs) + len(f.respawnSubs) + len(f.rainSubs) +
		len(f.kickedSubs) + len(f.spawnResetSubs) + len(f.healthSubs) +
		len(f.entityHurtSubs) + len(f.entityDeadSubs) + len(f.playerCollectSubs) +
		len(f.itemDropSubs) + len(f.forcedMoveSubs) + len(f.endSubs) + len(f.errorSubs)
}

// Fire helpers invoke every subscriber for a channel in registration order.

func (f *FakeConn) FireChat(msg game.ChatMessage) {
	for _, fn := range f.chatSubs {
		fn(msg)
	}
}

func (f *FakeConn) FirePlayerJoined(p game.Player) {
	for _, fn := range f.playerJoinedSubs {
		fn(p)
	}
}

func (f *FakeConn) FirePlayerLeft(p game.Player) {
	for _, fn := range f.playerLeftSubs {
		fn(p)
	}
}

func (f *FakeConn) FireDeath() {
	for _, fn := range f.deathSubs {
		fn()
	}
}

func (f *FakeConn) FireRespawn() {
	for _, fn := range f.respawnSubs {
		fn()
	}
}

func (f *FakeConn) FireRainChanged() {
	for _, fn := range f.rainSubs {
		fn()
	}
}

func (f *FakeConn) FireKicked(reason string) {
	for _, fn := range f.kickedSubs {
		fn(reason)
	}
}

func (f *FakeConn) FireSpawnReset() {
	for _, fn := range f.spawnResetSubs {
		fn()
	}
}

func (f *FakeConn) FireHealthChanged() {
	for _, fn := range f.healthSubs {
		fn()
	}
}

func (f *FakeConn) FireEntityHurt(e game.Entity) {
	for _, fn := range f.entityHurtSubs {
		fn(e)
	}
}

func (f *FakeConn) FireEntityDead(e game.Entity) {
	for _, fn := range f.entityDeadSubs {
		fn(e)
	}
}

func (f *FakeConn) FirePlayerCollect(collector game.Entity, items []game.ItemStack) {
	for _, fn := range f.playerCollectSubs {
		fn(collector, items)
	}
}

func (f *FakeConn) FireItemDrop(e game.Entity, items []game.ItemStack) {
	for _, fn := range f.itemDropSubs {
		fn(e, items)
	}
}

func (f *FakeConn) FireForcedMove() {
	for _, fn := range f.forcedMoveSubs {
		fn()
	}
}

func (f *FakeConn) FireEnd(reason string) {
	for _, fn := range f.endSubs {
		fn(reason)
	}
}

func (f *FakeConn) FireError(err error) {
	for _, fn := range f.errorSubs {
		fn(err)
	}
}
