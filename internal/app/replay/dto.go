package replay

import "citysim/internal/domain/city"

type Request struct {
	CityID   string
	Limit    int
	FromTick int
	ToTick   int
}

// Summary folds the returned events oldest first.
type Summary struct {
	LastTick     int            `json:"last_tick"`
	LastBudget   *int           `json:"last_budget,omitempty"`
	RevenueTotal int            `json:"revenue_total"`
	Placed       int            `json:"placed"`
	Bulldozed    int            `json:"bulldozed"`
	Transitions  map[string]int `json:"transitions"`
}

type Response struct {
	Events  []city.DomainEvent `json:"events"`
	Summary Summary            `json:"summary"`
}
