package replay

import (
	"context"
	"errors"
	"strings"

	"citysim/internal/app/ports"
	"citysim/internal/domain/city"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	TxManager ports.TxManager
	Events    ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.CityID) == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	if req.FromTick > 0 && req.ToTick > 0 && req.FromTick > req.ToTick {
		return Response{}, ErrInvalidRequest
	}
	var events []city.DomainEvent
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		events, err = u.Events.ListByCityID(txCtx, req.CityID, ports.TickWindow{From: req.FromTick, To: req.ToTick}, req.Limit)
		return err
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Events: events, Summary: summarize(events)}, nil
}

// summarize expects events newest first, as the repositories return them.
func summarize(events []city.DomainEvent) Summary {
	s := Summary{Transitions: map[string]int{}}
	for i := len(events) - 1; i >= 0; i-- {
		evt := events[i]
		s.LastTick = max(s.LastTick, evt.Tick)
		if b, ok := evt.Payload["budget"]; ok {
			budget := int(number(b))
			s.LastBudget = &budget
		}
		switch evt.Type {
		case city.EventBuildingPlaced:
			s.Placed++
		case city.EventBuildingBulldozed:
			s.Bulldozed++
		case city.EventRevenueCredited:
			s.RevenueTotal += int(number(evt.Payload["revenue"]))
		case city.EventDevelopmentChanged:
			if to, ok := evt.Payload["to"].(string); ok {
				s.Transitions[to]++
			}
		}
	}
	return s
}

// number accepts both in-memory payloads and ones decoded from JSON.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
