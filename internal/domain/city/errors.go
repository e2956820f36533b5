package city

import (
	"errors"

	"citysim/internal/domain/building"
	"citysim/internal/domain/world"
)

var (
	ErrInvalidCoordinates       = errors.New("invalid coordinates")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrOccupiedFootprint        = errors.New("occupied footprint")
	ErrCooldownActive           = errors.New("construction cooldown active")
	ErrUnrecognizedBuildingType = building.ErrUnrecognizedBuildingType
	ErrNothingToBulldoze        = errors.New("nothing to bulldoze")
)

type CooldownActiveError struct {
	RemainingTicks int
}

func (e *CooldownActiveError) Error() string {
	return ErrCooldownActive.Error()
}

func (e *CooldownActiveError) Unwrap() error {
	return ErrCooldownActive
}

type InsufficientFundsError struct {
	Cost   int
	Budget int
}

func (e *InsufficientFundsError) Error() string {
	return ErrInsufficientFunds.Error()
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

type OccupiedFootprintError struct {
	At       world.Point
	Building world.BuildingID
}

func (e *OccupiedFootprintError) Error() string {
	return ErrOccupiedFootprint.Error()
}

func (e *OccupiedFootprintError) Unwrap() error {
	return ErrOccupiedFootprint
}
