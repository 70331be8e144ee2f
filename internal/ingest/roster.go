package ingest

import (
	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game"
)

// playerJoinHandler translates roster-join notifications.
type playerJoinHandler struct{ base }

func (h *playerJoinHandler) EventType() event.Type { return event.TypePlayerJoin }

func (h *playerJoinHandler) Register() error {
	h.deps.Conn.OnPlayerJoined(func(p game.Player) {
		guard(event.TypePlayerJoin, func() {
			payload := event.PlayerJoinPayload{Username: p.Username}
			if p.DisplayName != "" {
				name := p.DisplayName
				payload.DisplayName = &name
			}
			h.emit(event.TypePlayerJoin, payload)
		})
	})
	return nil
}

// playerLeaveHandler translates roster-leave notifications.
type playerLeaveHandler struct{ base }

func (h *playerLeaveHandler) EventType() event.Type { return event.TypePlayerLeave }

func (h *playerLeaveHandler) Register() error {
	h.deps.Conn.OnPlayerLeft(func(p game.Player) {
		guard(event.TypePlayerLeave, func() {
			h.emit(event.TypePlayerLeave, event.PlayerLeavePayload{Username: p.Username})
		})
	})
	return nil
}
