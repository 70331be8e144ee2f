package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game"
	"github.com/voxelbot/voxelbot/internal/game/gametest"
)

var testClock = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// passRouter never consumes and passFilter never suppresses.
type passRouter struct{}

func (passRouter) HandleChat(string, string) bool { return false }

type passFilter struct{}

func (passFilter) Suppress(string, string) bool { return false }

func newTestRegistry(t *testing.T, conn *gametest.FakeConn, store *event.Store) *Registry {
	t.Helper()
	deps := Deps{
		Conn:     conn,
		Disabled: store.Disabled,
		Append:   store.Append,
		Tick:     conn.WorldTick,
		Now:      func() time.Time { return testClock },
	}
	r := NewRegistry(deps, ChatDeps{Router: passRouter{}, Filter: passFilter{}})
	if err := r.RegisterAll(); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	return r
}

func lastEvent(t *testing.T, store *event.Store) event.Event {
	t.Helper()
	res := store.Query(event.Query{})
	if len(res.Events) == 0 {
		t.Fatal("no events stored")
	}
	return res.Events[len(res.Events)-1]
}

func TestHandlers_TemporalEnvelope(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)

	conn.Tick = 777
	conn.FireDeath()

	ev := lastEvent(t, store)
	if ev.Type != event.TypeDeath {
		t.Fatalf("type = %s, want death", ev.Type)
	}
	if ev.GameTick != 777 {
		t.Errorf("GameTick = %d, want 777", ev.GameTick)
	}
	if !ev.Timestamp.Equal(testClock) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, testClock)
	}
	if ev.ID == "" {
		t.Error("event ID must be stamped")
	}
}

func TestDisabledTypeIsNeverConstructed(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)

	store.SetEnabledTypes([]event.Type{event.TypeChat})
	conn.FireDeath()
	conn.FireRespawn()
	conn.FireHealthChanged()

	if got := store.Len(); got != 0 {
		t.Fatalf("store grew to %d events for disabled types, want 0", got)
	}

	conn.FireChat(game.ChatMessage{Username: "alice", Text: "hi"})
	if got := store.Len(); got != 1 {
		t.Fatalf("enabled chat should store 1 event, got %d", got)
	}
}

func TestPlayerJoinHandler_OptionalDisplayName(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)

	conn.FirePlayerJoined(game.Player{Username: "alice"})
	payload := lastEvent(t, store).Payload.(event.PlayerJoinPayload)
	if payload.Username != "alice" || payload.DisplayName != nil {
		t.Fatalf("payload = %+v, want username alice and nil display name", payload)
	}

	conn.FirePlayerJoined(game.Player{Username: "bob", DisplayName: "Bob the Builder"})
	payload = lastEvent(t, store).Payload.(event.PlayerJoinPayload)
	if payload.DisplayName == nil || *payload.DisplayName != "Bob the Builder" {
		t.Fatalf("payload = %+v, want display name set", payload)
	}
}

func TestWeatherHandler_TriState(t *testing.T) {
	tests := []struct {
		name    string
		raining bool
		thunder float64
		want    string
	}{
		{"thunder wins over rain", true, 0.8, "thunder"},
		{"thunder without rain flag", false, 0.3, "thunder"},
		{"rain", true, 0, "rain"},
		{"clear", false, 0, "clear"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := gametest.NewFakeConn()
			store := event.NewStore(10)
			newTestRegistry(t, conn, store)

			conn.Raining = tt.raining
			conn.Thunder = tt.thunder
			conn.FireRainChanged()

			payload := lastEvent(t, store).Payload.(event.WeatherChangePayload)
			if payload.Weather != tt.want {
				t.Errorf("weather = %q, want %q", payload.Weather, tt.want)
			}
		})
	}
}

func TestHealthHandler_AlwaysEmitsAllVitals(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)

	conn.VitalsState = game.Vitals{Health: 13, Food: 18, Saturation: 2.4}
	conn.FireHealthChanged()

	payload := lastEvent(t, store).Payload.(event.HealthUpdatePayload)
	want := event.HealthUpdatePayload{Health: 13, Food: 18, Saturation: 2.4}
	if payload != want {
		t.Fatalf("payload = %+v, want %+v", payload, want)
	}
}

func TestEntityHurtHandler_StablePayloadShape(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)

	conn.FireEntityHurt(game.Entity{ID: 42, Kind: "mob", Name: "zombie", HasPosition: true, X: 1.005, Y: 64.333, Z: -2.999})

	payload := lastEvent(t, store).Payload.(event.EntityHurtPayload)
	if payload.Damage != 0 {
		t.Errorf("Damage = %v, want the zero placeholder", payload.Damage)
	}
	if payload.Entity.ID != 42 || payload.Entity.Name == nil || *payload.Entity.Name != "zombie" {
		t.Errorf("entity ref = %+v", payload.Entity)
	}
	pos := payload.Entity.Position
	if pos == nil {
		t.Fatal("position should be present")
	}
	if pos.X != 1 || pos.Y != 64.33 || pos.Z != -3 {
		t.Errorf("rounded position = %+v, want (1, 64.33, -3)", *pos)
	}
}

func TestEntityRef_MissingFieldsAreNil(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)

	conn.FireEntityDead(game.Entity{ID: 7})

	payload := lastEvent(t, store).Payload.(event.EntityDeathPayload)
	if payload.Entity.Name != nil {
		t.Error("missing name must be nil, not a placeholder")
	}
	if payload.Entity.Position != nil {
		t.Error("missing position must be nil")
	}
}

func TestItemHandlers_RegistryResolution(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)
	conn.ItemRegistry[1] = game.Item{ID: 1, Name: "stone"}

	conn.FireItemDrop(
		game.Entity{ID: 9, HasPosition: true, X: 0.5, Y: 70, Z: 0.5},
		[]game.ItemStack{{ItemID: 1, Count: 3}, {ItemID: 99, Count: 1}},
	)

	payload := lastEvent(t, store).Payload.(event.ItemDropPayload)
	if len(payload.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(payload.Items))
	}
	if payload.Items[0].Name != "stone" || payload.Items[0].Count != 3 {
		t.Errorf("known item = %+v", payload.Items[0])
	}
	if payload.Items[1].Name != "unknown" {
		t.Errorf("unknown item resolved to %q, want \"unknown\"", payload.Items[1].Name)
	}

	conn.FirePlayerCollect(game.Entity{ID: 3, Name: "alice"}, []game.ItemStack{{ItemID: 1, Count: 1}})
	collect := lastEvent(t, store).Payload.(event.PlayerCollectPayload)
	if collect.Collector.Name == nil || *collect.Collector.Name != "alice" {
		t.Errorf("collector = %+v", collect.Collector)
	}
	if len(collect.Items) != 1 || collect.Items[0].Name != "stone" {
		t.Errorf("collected items = %+v", collect.Items)
	}
}

func TestReasonSentinels(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)

	conn.FireKicked("")
	if p := lastEvent(t, store).Payload.(event.KickedPayload); p.Reason != "unspecified" {
		t.Errorf("kick reason = %q, want unspecified", p.Reason)
	}

	conn.FireKicked("banned")
	if p := lastEvent(t, store).Payload.(event.KickedPayload); p.Reason != "banned" {
		t.Errorf("kick reason = %q, want banned", p.Reason)
	}

	conn.FireEnd("")
	if p := lastEvent(t, store).Payload.(event.ConnectionEndPayload); p.Reason != "connection closed" {
		t.Errorf("end reason = %q, want connection closed", p.Reason)
	}
}

func TestErrorHandler(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	newTestRegistry(t, conn, store)

	conn.FireError(errors.New("read timeout"))
	if p := lastEvent(t, store).Payload.(event.ErrorPayload); p.Message != "read timeout" {
		t.Errorf("message = %q", p.Message)
	}

	conn.FireError(nil)
	if p := lastEvent(t, store).Payload.(event.ErrorPayload); p.Message != "unknown error" {
		t.Errorf("nil error message = %q, want unknown error", p.Message)
	}
}

func TestGuard_ContainsCallbackPanics(t *testing.T) {
	conn := gametest.NewFakeConn()
	store := event.NewStore(10)
	deps := Deps{
		Conn:     conn,
		Disabled: store.Disabled,
		Append:   func(event.Event) { panic("store exploded") },
		Tick:     conn.WorldTick,
		Now:      time.Now,
	}
	r := NewRegistry(deps, ChatDeps{Router: passRouter{}, Filter: passFilter{}})
	if err := r.RegisterAll(); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}

	// Must not panic through the notification dispatch.
	conn.FireDeath()
	conn.FireRespawn()
}
