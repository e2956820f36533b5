package city

import "time"

const (
	EventBuildingPlaced     = "building_placed"
	EventBuildingBulldozed  = "building_bulldozed"
	EventDevelopmentChanged = "development_changed"
	EventRevenueCredited    = "revenue_credited"
)

type DomainEvent struct {
	Type       string         `json:"type"`
	Tick       int            `json:"tick"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

func (c *City) record(eventType string, payload map[string]any) {
	c.events = append(c.events, DomainEvent{
		Type:       eventType,
		Tick:       c.tick,
		OccurredAt: c.cfg.Now(),
		Payload:    payload,
	})
}

// DrainEvents returns the events recorded since the last drain.
func (c *City) DrainEvents() []DomainEvent {
	out := c.events
	c.events = nil
	return out
}
