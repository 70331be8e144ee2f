// Package bridge implements game.Conn over a line-delimited JSON connection
// to the scripted game-client shim. The shim pushes one JSON object per line
// for every raw notification and for periodic state snapshots; the bridge
// mirrors the snapshots so the synchronous world accessors never block on
// the wire.
package bridge

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/voxelbot/voxelbot/internal/game"
)

// Notification names on the wire.
const (
	wireChat          = "chat"
	wirePlayerJoined  = "playerJoined"
	wirePlayerLeft    = "playerLeft"
	wireDeath         = "death"
	wireRespawn       = "respawn"
	wireRain          = "rain"
	wireKicked        = "kicked"
	wireSpawnReset    = "spawnReset"
	wireHealth        = "health"
	wireEntityHurt    = "entityHurt"
	wireEntityDead    = "entityDead"
	wirePlayerCollect = "playerCollect"
	wireItemDrop      = "itemDrop"
	wireForcedMove    = "forcedMove"
	wireEnd           = "end"
	wireError         = "error"
	wireState         = "state"
	wireRegistry      = "registry"
)

// envelope is one inbound line from the shim.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// wireEntity is the shim's entity record.
type wireEntity struct {
	ID       int64  `json:"id"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Position *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	} `json:"position"`
}

func (w wireEntity) entity() game.Entity {
	e := game.Entity{ID: w.ID, Kind: w.Kind, Name: w.Name}
	if w.Position != nil {
		e.HasPosition = true
		e.X, e.Y, e.Z = w.Position.X, w.Position.Y, w.Position.Z
	}
	return e
}

// wireStack is the shim's item stack record.
type wireStack struct {
	ID    int32 `json:"id"`
	Count int   `json:"count"`
}

func stacks(ws []wireStack) []game.ItemStack {
	out := make([]game.ItemStack, 0, len(ws))
	for _, s := range ws {
		out = append(out, game.ItemStack{ItemID: s.ID, Count: s.Count})
	}
	return out
}

// stateSnapshot mirrors the world state the accessors serve.
type stateSnapshot struct {
	Tick       int64       `json:"tick"`
	Health     float64     `json:"health"`
	Food       float64     `json:"food"`
	Saturation float64     `json:"saturation"`
	Raining    bool        `json:"raining"`
	Thunder    float64     `json:"thunder"`
	Self       *wireEntity `json:"self"`
}

// Conn is a live bridge connection. Notification callbacks run sequentially
// on the read-loop goroutine; accessors are safe from any goroutine.
type Conn struct {
	nc net.Conn

	writeMu sync.Mutex
	enc     *json.Encoder

	mu      sync.RWMutex
	tick    int64
	vitals  game.Vitals
	raining bool
	thunder float64
	self    game.Entity
	hasSelf bool
	items   map[int32]game.Item
	ended   bool

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

// Dial connects to the shim at addr and starts the read loop.
func Dial(addr string) (*Conn, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial game client shim at %s: %w", addr, err)
	}
	return New(nc), nil
}

// New wraps an established connection and starts the read loop.
func New(nc net.Conn) *Conn {
	c := &Conn{
		nc:    nc,
		enc:   json.NewEncoder(nc),
		items: make(map[int32]game.Item),
	}
	go c.readLoop()
	return c
}

// Close tears down the underlying connection. The read loop then reports a
// connection end to subscribers.
func (c *Conn) Close() error {
	return c.nc.Close()
}

func (c *Conn) readLoop() {
	scanner := bufio.NewScanner(c.nc)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			log.Printf("bridge: undecodable line: %v", err)
			continue
		}
		c.dispatch(env)
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Printf("bridge: read loop ended: %v", err)
	}
	c.finish("bridge connection lost")
}

// finish reports the connection end exactly once.
func (c *Conn) finish(reason string) {
	c.mu.Lock()
	already := c.ended
	c.ended = true
	subs := c.endSubs
	c.mu.Unlock()
	if already {
		return
	}
	for _, fn := range subs {
		invoke(wireEnd, func() { fn(reason) })
	}
}

// invoke runs one subscriber callback, containing panics so they cannot
// take down the read loop.
func invoke(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("bridge: %s callback panicked: %v", name, rec)
		}
	}()
	fn()
}

func (c *Conn) dispatch(env envelope) {
	switch env.Event {
	case wireState:
		var snap stateSnapshot
		if err := json.Unmarshal(env.Data, &snap); err != nil {
			log.Printf("bridge: bad state snapshot: %v", err)
			return
		}
		c.mu.Lock()
		c.tick = snap.Tick
		c.vitals = game.Vitals{Health: snap.Health, Food: snap.Food, Saturation: snap.Saturation}
		c.raining = snap.Raining
		c.thunder = snap.Thunder
		if snap.Self != nil {
			c.self = snap.Self.entity()
			c.hasSelf = true
		}
		c.mu.Unlock()

	case wireRegistry:
		var data struct {
			Items []game.Item `json:"items"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad item registry: %v", err)
			return
		}
		c.mu.Lock()
		for _, item := range data.Items {
			c.items[item.ID] = item
		}
		c.mu.Unlock()

	case wireChat:
		var data struct {
			Username string `json:"username"`
			Text     string `json:"text"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad chat payload: %v", err)
			return
		}
		for _, fn := range c.snapshotChatSubs() {
			invoke(wireChat, func() { fn(game.ChatMessage{Username: data.Username, Text: data.Text}) })
		}

	case wirePlayerJoined, wirePlayerLeft:
		var data struct {
			Username    string `json:"username"`
			DisplayName string `json:"displayName"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad player payload: %v", err)
			return
		}
		player := game.Player{Username: data.Username, DisplayName: data.DisplayName}
		c.mu.RLock()
		subs := c.playerJoinedSubs
		if env.Event == wirePlayerLeft {
			subs = c.playerLeftSubs
		}
		c.mu.RUnlock()
		for _, fn := range subs {
			invoke(env.Event, func() { fn(player) })
		}

	case wireDeath:
		c.fireSimple(env.Event, func() []func() { return c.deathSubs })
	case wireRespawn:
		c.fireSimple(env.Event, func() []func() { return c.respawnSubs })
	case wireRain:
		c.fireSimple(env.Event, func() []func() { return c.rainSubs })
	case wireSpawnReset:
		c.fireSimple(env.Event, func() []func() { return c.spawnResetSubs })
	case wireHealth:
		c.fireSimple(env.Event, func() []func() { return c.healthSubs })
	case wireForcedMove:
		c.fireSimple(env.Event, func() []func() { return c.forcedMoveSubs })

	case wireKicked:
		var data struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad kick payload: %v", err)
			return
		}
		c.mu.RLock()
		subs := c.kickedSubs
		c.mu.RUnlock()
		for _, fn := range subs {
			invoke(wireKicked, func() { fn(data.Reason) })
		}

	case wireEntityHurt, wireEntityDead:
		var data struct {
			Entity wireEntity `json:"entity"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad entity payload: %v", err)
			return
		}
		entity := data.Entity.entity()
		c.mu.RLock()
		subs := c.entityHurtSubs
		if env.Event == wireEntityDead {
			subs = c.entityDeadSubs
		}
		c.mu.RUnlock()
		for _, fn := range subs {
			invoke(env.Event, func() { fn(entity) })
		}

	case wirePlayerCollect:
		var data struct {
			Collector wireEntity  `json:"collector"`
			Items     []wireStack `json:"items"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad collect payload: %v", err)
			return
		}
		collector := data.Collector.entity()
		items := stacks(data.Items)
		c.mu.RLock()
		subs := c.playerCollectSubs
		c.mu.RUnlock()
		for _, fn := range subs {
			invoke(wirePlayerCollect, func() { fn(collector, items) })
		}

	case wireItemDrop:
		var data struct {
			Entity wireEntity  `json:"entity"`
			Items  []wireStack `json:"items"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad drop payload: %v", err)
			return
		}
		entity := data.Entity.entity()
		items := stacks(data.Items)
		c.mu.RLock()
		subs := c.itemDropSubs
		c.mu.RUnlock()
		for _, fn := range subs {
			invoke(wireItemDrop, func() { fn(entity, items) })
		}

	case wireEnd:
		var data struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad end payload: %v", err)
			return
		}
		reason := data.Reason
		if reason == "" {
			reason = "connection closed"
		}
		c.finish(reason)

	case wireError:
		var data struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Printf("bridge: bad error payload: %v", err)
			return
		}
		err := errors.New(data.Message)
		c.mu.RLock()
		subs := c.errorSubs
		c.mu.RUnlock()
		for _, fn := range subs {
			invoke(wireError, func() { fn(err) })
		}

	default:
		log.Printf("bridge: unknown notification %q", env.Event)
	}
}

func (c *Conn) fireSimple(name string, pick func() []func()) {
	c.mu.RLock()
	subs := pick()
	c.mu.RUnlock()
	for _, fn := range subs {
		invoke(name, fn)
	}
}

func (c *Conn) snapshotChatSubs() []func(game.ChatMessage) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chatSubs
}

// Subscription methods. Subscriptions are permanent; there is no unregister.

func (c *Conn) OnChat(fn func(game.ChatMessage)) {
	c.mu.Lock()
	c.chatSubs = append(c.chatSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnPlayerJoined(fn func(game.Player)) {
	c.mu.Lock()
	c.playerJoinedSubs = append(c.playerJoinedSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnPlayerLeft(fn func(game.Player)) {
	c.mu.Lock()
	c.playerLeftSubs = append(c.playerLeftSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnDeath(fn func()) {
	c.mu.Lock()
	c.deathSubs = append(c.deathSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnRespawn(fn func()) {
	c.mu.Lock()
	c.respawnSubs = append(c.respawnSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnRainChanged(fn func()) {
	c.mu.Lock()
	c.rainSubs = append(c.rainSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnKicked(fn func(string)) {
	c.mu.Lock()
	c.kickedSubs = append(c.kickedSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnSpawnReset(fn func()) {
	c.mu.Lock()
	c.spawnResetSubs = append(c.spawnResetSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnHealthChanged(fn func()) {
	c.mu.Lock()
	c.healthSubs = append(c.healthSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnEntityHurt(fn func(game.Entity)) {
	c.mu.Lock()
	c.entityHurtSubs = append(c.entityHurtSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnEntityDead(fn func(game.Entity)) {
	c.mu.Lock()
	c.entityDeadSubs = append(c.entityDeadSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnPlayerCollect(fn func(game.Entity, []game.ItemStack)) {
	c.mu.Lock()
	c.playerCollectSubs = append(c.playerCollectSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnItemDrop(fn func(game.Entity, []game.ItemStack)) {
	c.mu.Lock()
	c.itemDropSubs = append(c.itemDropSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnForcedMove(fn func()) {
	c.mu.Lock()
	c.forcedMoveSubs = append(c.forcedMoveSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnEnd(fn func(string)) {
	c.mu.Lock()
	c.endSubs = append(c.endSubs, fn)
	c.mu.Unlock()
}

func (c *Conn) OnError(fn func(error)) {
	c.mu.Lock()
	c.errorSubs = append(c.errorSubs, fn)
	c.mu.Unlock()
}

// Accessors serve the mirrored state.

func (c *Conn) WorldTick() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tick
}

func (c *Conn) Self() (game.Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.self, c.hasSelf
}

func (c *Conn) Vitals() game.Vitals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vitals
}

func (c *Conn) IsRaining() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.raining
}

func (c *Conn) ThunderLevel() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.thunder
}

func (c *Conn) Item(id int32) (game.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// SendChat writes an outbound chat request.
func (c *Conn) SendChat(text string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.enc.Encode(map[string]string{"op": "chat", "text": text}); err != nil {
		log.Printf("bridge: send chat: %v", err)
	}
}
