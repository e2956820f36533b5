package building

import (
	"citysim/internal/domain/chance"
	"citysim/internal/domain/development"
	"citysim/internal/domain/occupancy"
	"citysim/internal/domain/world"
)

var styles = []string{"A", "B", "C"}

var (
	namePrefixes = []string{"Emerald", "Ivory", "Crimson", "Opulent", "Celestial", "Enchanted", "Serene", "Whispering", "Stellar", "Tranquil"}
	nameSuffixes = []string{"Tower", "Residence", "Manor", "Court", "Plaza", "House", "Mansion", "Place", "Villa", "Gardens"}
)

type Factory struct {
	dev development.Config
	occ occupancy.Config
	rnd chance.Source
}

func NewFactory(dev development.Config, occ occupancy.Config, rnd chance.Source) *Factory {
	if rnd == nil {
		rnd = chance.NewSeeded(1)
	}
	return &Factory{dev: dev, occ: occ.Normalize(), rnd: rnd}
}

// Create builds an unplaced building anchored at (x, y). The city assigns the ID.
func (f *Factory) Create(t Type, x, y int) (*Building, error) {
	spec, ok := Lookup(t)
	if !ok {
		return nil, ErrUnrecognizedBuildingType
	}
	b := &Building{
		Type:   spec.Type,
		Kind:   spec.Kind,
		Origin: world.Point{X: x, Y: y},
		Size:   spec.Size,
		Style:  spec.Style,
	}
	if !spec.Zoned() {
		return b, nil
	}
	if b.Style == "" {
		b.Style = styles[chance.Pick(f.rnd, len(styles))]
	}
	b.Zone = &Zone{Development: development.New(f.dev), cfg: f.dev}
	switch spec.Kind {
	case KindResidential:
		b.Name = f.name()
		b.Zone.Residents = occupancy.NewResidents(f.occ, spec.Capacity)
	case KindJobs:
		b.Zone.Jobs = occupancy.NewJobs(f.occ, spec.Capacity)
	}
	return b, nil
}

func (f *Factory) name() string {
	prefix := namePrefixes[chance.Pick(f.rnd, len(namePrefixes))]
	suffix := nameSuffixes[chance.Pick(f.rnd, len(nameSuffixes))]
	return prefix + " " + suffix
}
