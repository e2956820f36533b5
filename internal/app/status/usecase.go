package status

import (
	"context"

	"citysim/internal/app/simulation"
	"citysim/internal/domain/building"
	"citysim/internal/domain/city"
)

type UseCase struct {
	Runtime *simulation.Runtime
}

func (u UseCase) Execute(_ context.Context, _ Request) (Response, error) {
	var out Response
	err := u.Runtime.Do(func(c *city.City) error {
		period := c.Config().Economy.RevenuePeriodTicks
		out = Response{
			City:                c.Snapshot(),
			TickLengthMillis:    c.TickLength().Milliseconds(),
			RevenuePeriodTicks:  period,
			NextRevenueInTicks:  period - c.Tick()%period,
			ConstructionAllowed: c.Cooldown() == 0,
		}
		return nil
	})
	return out, err
}

func (u UseCase) Tile(_ context.Context, req TileRequest) (TileResponse, error) {
	tile, err := u.Runtime.Describe(req.X, req.Y)
	if err != nil {
		return TileResponse{}, err
	}
	return TileResponse{Tile: tile}, nil
}

func (u UseCase) Catalog(context.Context) CatalogResponse {
	return CatalogResponse{Buildings: building.Catalog()}
}
