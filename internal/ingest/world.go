package ingest

import (
	"github.com/voxelbot/voxelbot/internal/event"
)

// Weather classifications, in precedence order thunder > rain > clear.
const (
	weatherClear   = "clear"
	weatherRain    = "rain"
	weatherThunder = "thunder"
)

// weatherHandler translates rain-toggle notifications. The raw notification
// carries no weather value, so the tri-state classification is re-derived
// from two instantaneous reads sampled at event time.
type weatherHandler struct{ base }

func (h *weatherHandler) EventType() event.Type { return event.TypeWeatherChange }

func (h *weatherHandler) Register() error {
	h.deps.Conn.OnRainChanged(func() {
		guard(event.TypeWeatherChange, func() {
			h.emit(event.TypeWeatherChange, event.WeatherChangePayload{Weather: h.classify()})
		})
	})
	return nil
}

func (h *weatherHandler) classify() string {
	if h.deps.Conn.ThunderLevel() > 0 {
		return weatherThunder
	}
	if h.deps.Conn.IsRaining() {
		return weatherRain
	}
	return weatherClear
}

// healthHandler translates vitals-change notifications. The raw notification
// does not say which vital changed, so health, food and saturation are
// always reported together.
type healthHandler struct{ base }

func (h *healthHandler) EventType() event.Type { return event.TypeHealthUpdate }

func (h *healthHandler) Register() error {
	h.deps.Conn.OnHealthChanged(func() {
		guard(event.TypeHealthUpdate, func() {
			vitals := h.deps.Conn.Vitals()
			h.emit(event.TypeHealthUpdate, event.HealthUpdatePayload{
				Health:     vitals.Health,
				Food:       vitals.Food,
				Saturation: vitals.Saturation,
			})
		})
	})
	return nil
}
