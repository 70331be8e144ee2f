package ingest

import (
	"github.com/voxelbot/voxelbot/internal/event"
	"github.com/voxelbot/voxelbot/internal/game"
)

// chatStage is one step of the chat interception pipeline. Returning true
// terminates processing; the message never becomes an event.
type chatStage func(msg game.ChatMessage) bool

// chatHandler intercepts chat through an ordered stage list before emission:
// command routing first, content filtering second. Adding a stage means
// appending to the list, not nesting another conditional.
type chatHandler struct {
	base
	stages []chatStage
}

// CommandRouter is the chat handler's view of the command subsystem.
type CommandRouter interface {
	// HandleChat reports whether the message was consumed as a command.
	HandleChat(username, text string) bool
}

// ContentFilter is the chat handler's view of the suppression rules.
type ContentFilter interface {
	// Suppress reports whether the message must be dropped.
	Suppress(username, text string) bool
}

func newChatHandler(b base, router CommandRouter, filter ContentFilter) *chatHandler {
	h := &chatHandler{base: b}
	h.stages = []chatStage{
		func(msg game.ChatMessage) bool { return router.HandleChat(msg.Username, msg.Text) },
		func(msg game.ChatMessage) bool { return filter.Suppress(msg.Username, msg.Text) },
	}
	return h
}

func (h *chatHandler) EventType() event.Type { return event.TypeChat }

func (h *chatHandler) Register() error {
	h.deps.Conn.OnChat(func(msg game.ChatMessage) {
		guard(event.TypeChat, func() {
			for _, stage := range h.stages {
				if stage(msg) {
					return
				}
			}
			h.emit(event.TypeChat, event.ChatPayload{Username: msg.Username, Text: msg.Text})
		})
	})
	return nil
}
