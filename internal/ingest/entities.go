package ingest

import (
	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game"
)

// entityHurtHandler translates entity-damage notifications. The raw
// notification carries no damage magnitude; the payload reports zero to keep
// its shape stable for consumers.
type entityHurtHandler struct{ base }

func (h *entityHurtHandler) EventType() event.Type { return event.TypeEntityHurt }

func (h *entityHurtHandler) Register() error {
	h.deps.Conn.OnEntityHurt(func(e game.Entity) {
		guard(event.TypeEntityHurt, func() {
			h.emit(event.TypeEntityHurt, event.EntityHurtPayload{Entity: entityRef(e), Damage: 0})
		})
	})
	return nil
}

// entityDeathHandler translates entity-death notifications.
type entityDeathHandler struct{ base }

func (h *entityDeathHandler) EventType() event.Type { return event.TypeEntityDeath }

func (h *entityDeathHandler) Register() error {
	h.deps.Conn.OnEntityDead(func(e game.Entity) {
		guard(event.TypeEntityDeath, func() {
			h.emit(event.TypeEntityDeath, event.EntityDeathPayload{Entity: entityRef(e)})
		})
	})
	return nil
}

// playerCollectHandler translates item-pickup notifications, resolving each
// stack against the item registry at translation time.
type playerCollectHandler struct{ base }

func (h *playerCollectHandler) EventType() event.Type { return event.TypePlayerCollect }

func (h *playerCollectHandler) Register() error {
	h.deps.Conn.OnPlayerCollect(func(collector game.Entity, items []game.ItemStack) {
		guard(event.TypePlayerCollect, func() {
			h.emit(event.TypePlayerCollect, event.PlayerCollectPayload{
				Collector: entityRef(collector),
				Items:     resolveStacks(h.deps.Conn, items),
			})
		})
	})
	return nil
}

// itemDropHandler translates ground-item notifications.
type itemDropHandler struct{ base }

func (h *itemDropHandler) EventType() event.Type { return event.TypeItemDrop }

func (h *itemDropHandler) Register() error {
	h.deps.Conn.OnItemDrop(func(e game.Entity, items []game.ItemStack) {
		guard(event.TypeItemDrop, func() {
			h.emit(event.TypeItemDrop, event.ItemDropPayload{
				Position: entityPosition(e),
				Items:    resolveStacks(h.deps.Conn, items),
			})
		})
	})
	return nil
}
