package command

import "citysim/internal/app/ports"

const (
	CommandPlace    = "place"
	CommandBulldoze = "bulldoze"
	CommandAdvance  = "advance"
	CommandElapse   = "elapse"
)

type PlaceRequest struct {
	IdempotencyKey string
	X              int
	Y              int
	Type           string
}

type BulldozeRequest struct {
	IdempotencyKey string
	X              int
	Y              int
}

type AdvanceRequest struct {
	IdempotencyKey string
	Ticks          int
}

type Response struct {
	Command  string              `json:"command"`
	Replayed bool                `json:"replayed"`
	Result   ports.CommandResult `json:"result"`
}
