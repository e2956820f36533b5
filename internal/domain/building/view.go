package building

import (
	"fmt"

	"citysim/internal/domain/development"
	"citysim/internal/domain/world"
)

const underConstructionKey = "under-construction"

// Visual is what a renderer needs to pick and tint a mesh.
type Visual struct {
	Key    string `json:"key"`
	Tinted bool   `json:"tinted"`
}

func (b *Building) Visual() Visual {
	spec, _ := Lookup(b.Type)
	if b.Zone == nil {
		return Visual{Key: spec.Asset}
	}
	switch b.Zone.Development.State() {
	case development.StateUndeveloped, development.StateUnderConstruction:
		return Visual{Key: underConstructionKey}
	}
	return Visual{
		Key:    fmt.Sprintf("%s-%s%d", spec.Asset, b.Style, b.Zone.Development.Level()),
		Tinted: b.Zone.Development.State() == development.StateAbandoned,
	}
}

type Description struct {
	ID               world.BuildingID  `json:"id"`
	Type             Type              `json:"type"`
	Kind             Kind              `json:"kind"`
	Name             string            `json:"name,omitempty"`
	Origin           world.Point       `json:"origin"`
	Size             int               `json:"size"`
	Style            string            `json:"style,omitempty"`
	Powered          bool              `json:"powered"`
	State            development.State `json:"state,omitempty"`
	Level            int               `json:"level,omitempty"`
	AbandonCounter   int               `json:"abandon_counter,omitempty"`
	RoadAccess       bool              `json:"road_access,omitempty"`
	Residents        int               `json:"residents"`
	ResidentCapacity int               `json:"resident_capacity"`
	Workers          int               `json:"workers"`
	WorkerCapacity   int               `json:"worker_capacity"`
	Visual           Visual            `json:"visual"`
}

func (b *Building) Describe() Description {
	d := Description{
		ID:      b.ID,
		Type:    b.Type,
		Kind:    b.Kind,
		Name:    b.Name,
		Origin:  b.Origin,
		Size:    b.Size,
		Style:   b.Style,
		Powered: b.Powered,
		Visual:  b.Visual(),
	}
	if b.Zone == nil {
		return d
	}
	dev := b.Zone.Development
	d.State = dev.State()
	d.Level = dev.Level()
	d.AbandonCounter = dev.AbandonCounter()
	d.RoadAccess = b.Zone.RoadAccess
	if r := b.Zone.Residents; r != nil {
		d.Residents = r.Count()
		d.ResidentCapacity = r.Capacity(dev.Level())
	}
	if j := b.Zone.Jobs; j != nil {
		d.Workers = j.Count()
		d.WorkerCapacity = j.Capacity(dev.Level())
	}
	return d
}
