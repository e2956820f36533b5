package status

import (
	"citysim/internal/domain/building"
	"citysim/internal/domain/city"
)

type Request struct{}

type Response struct {
	City                city.Snapshot `json:"city"`
	TickLengthMillis    int64         `json:"tick_length_ms"`
	RevenuePeriodTicks  int           `json:"revenue_period_ticks"`
	NextRevenueInTicks  int           `json:"next_revenue_in_ticks"`
	ConstructionAllowed bool          `json:"construction_allowed"`
}

type TileRequest struct {
	X int
	Y int
}

type TileResponse struct {
	Tile city.TileDescription `json:"tile"`
}

type CatalogResponse struct {
	Buildings []building.Spec `json:"buildings"`
}
