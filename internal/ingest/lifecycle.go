package ingest

import (
	"github.com/voxelbot/voxelbot/internal/event"
)

// Sentinel reasons used when the connection supplies none.
const (
	defaultKickReason = "unspecified"
	defaultEndReason  = "connection closed"
)

// deathHandler translates agent-death notifications.
type deathHandler struct{ base }

func (h *deathHandler) EventType() event.Type { return event.TypeDeath }

func (h *deathHandler) Register() error {
	h.deps.Conn.OnDeath(func() {
		guard(event.TypeDeath, func() {
			h.emit(event.TypeDeath, event.DeathPayload{Position: h.selfPosition()})
		})
	})
	return nil
}

// respawnHandler translates respawn notifications.
type respawnHandler struct{ base }

func (h *respawnHandler) EventType() event.Type { return event.TypeRespawn }

func (h *respawnHandler) Register() error {
	h.deps.Conn.OnRespawn(func() {
		guard(event.TypeRespawn, func() {
			h.emit(event.TypeRespawn, event.RespawnPayload{Position: h.selfPosition()})
		})
	})
	return nil
}

// kickedHandler translates kick notifications. A missing reason defaults to
// a sentinel string because the source is known to omit it.
type kickedHandler struct{ base }

func (h *kickedHandler) EventType() event.Type { return event.TypeKicked }

func (h *kickedHandler) Register() error {
	h.deps.Conn.OnKicked(func(reason string) {
		guard(event.TypeKicked, func() {
			if reason == "" {
				reason = defaultKickReason
			}
			h.emit(event.TypeKicked, event.KickedPayload{Reason: reason})
		})
	})
	return nil
}

// spawnResetHandler translates spawn-point-change notifications.
type spawnResetHandler struct{ base }

func (h *spawnResetHandler) EventType() event.Type { return event.TypeSpawnReset }

func (h *spawnResetHandler) Register() error {
	h.deps.Conn.OnSpawnReset(func() {
		guard(event.TypeSpawnReset, func() {
			h.emit(event.TypeSpawnReset, event.SpawnResetPayload{Position: h.selfPosition()})
		})
	})
	return nil
}

// forcedMoveHandler translates server-teleport notifications.
type forcedMoveHandler struct{ base }

func (h *forcedMoveHandler) EventType() event.Type { return event.TypeForcedMove }

func (h *forcedMoveHandler) Register() error {
	h.deps.Conn.OnForcedMove(func() {
		guard(event.TypeForcedMove, func() {
			h.emit(event.TypeForcedMove, event.ForcedMovePayload{Position: h.selfPosition()})
		})
	})
	return nil
}

// connectionEndHandler translates connection-close notifications.
type connectionEndHandler struct{ base }

func (h *connectionEndHandler) EventType() event.Type { return event.TypeConnectionEnd }

func (h *connectionEndHandler) Register() error {
	h.deps.Conn.OnEnd(func(reason string) {
		guard(event.TypeConnectionEnd, func() {
			if reason == "" {
				reason = defaultEndReason
			}
			h.emit(event.TypeConnectionEnd, event.ConnectionEndPayload{Reason: reason})
		})
	})
	return nil
}

// errorHandler translates connection-level errors into events.
type errorHandler struct{ base }

func (h *errorHandler) EventType() event.Type { return event.TypeError }

func (h *errorHandler) Register() error {
	h.deps.Conn.OnError(func(err error) {
		guard(event.TypeError, func() {
			msg := "unknown error"
			if err != nil {
				msg = err.Error()
			}
			h.emit(event.TypeError, event.ErrorPayload{Message: msg})
		})
	})
	return nil
}
