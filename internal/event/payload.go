package event

// ChatPayload captures the payload for chat events.
type ChatPayload struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// PlayerJoinPayload captures the payload for player-join events.
type PlayerJoinPayload struct {
	Username string `json:"username"`
	// DisplayName is nil when the connection did not supply one.
	DisplayName *string `json:"displayName,omitempty"`
}

// PlayerLeavePayload captures the payload for player-leave events.
type PlayerLeavePayload struct {
	Username string `json:"username"`
}

// DeathPayload captures the payload for death events.
type DeathPayload struct {
	// Position is the agent's position at the time of death, nil when the
	// connection had no entity record.
	Position *Position `json:"position,omitempty"`
}

// RespawnPayload captures the payload for respawn events.
type RespawnPayload struct {
	Position *Position `json:"position,omitempty"`
}

// WeatherChangePayload captures the payload for weather-change events.
type WeatherChangePayload struct {
	// Weather is one of "clear", "rain" or "thunder".
	Weather string `json:"weather"`
}

// KickedPayload captures the payload for kicked events.
type KickedPayload struct {
	Reason string `json:"reason"`
}

// SpawnResetPayload captures the payload for spawn-reset events.
type SpawnResetPayload struct {
	Position *Position `json:"position,omitempty"`
}

// HealthUpdatePayload captures the payload for health-update events. All three
// vitals are reported together even when only one changed.
type HealthUpdatePayload struct {
	Health     float64 `json:"health"`
	Food       float64 `json:"food"`
	Saturation float64 `json:"saturation"`
}

// EntityHurtPayload captures the payload for entity-hurt events.
type EntityHurtPayload struct {
	Entity EntityRef `json:"entity"`
	// Damage is always zero: the raw notification carries no magnitude, but
	// the field is kept so the payload shape stays stable for consumers.
	Damage float64 `json:"damage"`
}

// EntityDeathPayload captures the payload for entity-death events.
type EntityDeathPayload struct {
	Entity EntityRef `json:"entity"`
}

// PlayerCollectPayload captures the payload for player-collect events.
type PlayerCollectPayload struct {
	Collector EntityRef `json:"collector"`
	Items     []Stack   `json:"items"`
}

// ItemDropPayload captures the payload for item-drop events.
type ItemDropPayload struct {
	Position *Position `json:"position,omitempty"`
	Items    []Stack   `json:"items"`
}

// ForcedMovePayload captures the payload for forced-move events.
type ForcedMovePayload struct {
	Position *Position `json:"position,omitempty"`
}

// ConnectionEndPayload captures the payload for connection-end events.
type ConnectionEndPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload captures the payload for error events.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Position is a world coordinate, rounded to two decimal places at
// translation time so stored events are display-ready.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// EntityRef identifies an entity referenced by a payload.
type EntityRef struct {
	ID int64 `json:"id"`
	// Kind is the entity kind (player, mob, object), empty when unknown.
	Kind string `json:"kind,omitempty"`
	// Name is the entity's display or username, nil when the connection did
	// not supply one.
	Name *string `json:"name,omitempty"`
	// Position is nil when the entity record carried no coordinates.
	Position *Position `json:"position,omitempty"`
}

// Stack is one item stack referenced by a payload. Name is resolved against
// the connection's item registry at translation time; unknown ids degrade to
// the name "unknown".
type Stack struct {
	ItemID int32  `json:"itemId"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}
