package building

import (
	"errors"
	"sort"
)

var ErrUnrecognizedBuildingType = errors.New("unrecognized building type")

type Type string

const (
	TypeResidential     Type = "residential"
	TypeResidential2BHK Type = "residential_2bhk"
	TypeResidential3BHK Type = "residential_3bhk"
	TypeCommercial      Type = "commercial"
	TypeIndustrial      Type = "industrial"
	TypeRoad            Type = "road"
	TypePowerPlant      Type = "power_plant"
	TypePowerLine       Type = "power_line"
	TypeBank            Type = "bank"
	TypeFireStation     Type = "fire_station"
	TypeHospital        Type = "hospital"
	TypePolice          Type = "police"
	TypeSchool          Type = "school"
	TypeSupermarket     Type = "supermarket"
	TypeConcertHall     Type = "concert_hall"
	TypeRestaurant      Type = "restaurant"
	TypeTownHall        Type = "town_hall"
)

// Kind selects the behavior a building type runs with.
type Kind string

const (
	KindResidential Kind = "residential"
	KindJobs        Kind = "jobs"
	KindRoad        Kind = "road"
	KindPowerPlant  Kind = "power_plant"
	KindPowerLine   Kind = "power_line"
	KindCivic       Kind = "civic"
)

type Spec struct {
	Type  Type   `json:"type"`
	Kind  Kind   `json:"kind"`
	Cost  int    `json:"cost"`
	Size  int    `json:"size"`
	Asset string `json:"asset"`
	// Style pins the mesh style; empty means one of A, B, C is drawn.
	Style string `json:"style,omitempty"`
	// Capacity overrides the configured occupancy ceiling when positive.
	Capacity int `json:"capacity,omitempty"`
}

func (s Spec) Zoned() bool {
	return s.Kind == KindResidential || s.Kind == KindJobs
}

var catalog = map[Type]Spec{
	TypeResidential:     {Type: TypeResidential, Kind: KindResidential, Cost: 300, Size: 1, Asset: "residential"},
	TypeResidential2BHK: {Type: TypeResidential2BHK, Kind: KindResidential, Cost: 500, Size: 2, Asset: "residential", Capacity: 4},
	TypeResidential3BHK: {Type: TypeResidential3BHK, Kind: KindResidential, Cost: 800, Size: 3, Asset: "residential", Style: "C", Capacity: 6},
	TypeCommercial:      {Type: TypeCommercial, Kind: KindJobs, Cost: 400, Size: 1, Asset: "commercial"},
	TypeIndustrial:      {Type: TypeIndustrial, Kind: KindJobs, Cost: 400, Size: 1, Asset: "industrial"},
	TypeRoad:            {Type: TypeRoad, Kind: KindRoad, Cost: 25, Size: 1, Asset: "road"},
	TypePowerPlant:      {Type: TypePowerPlant, Kind: KindPowerPlant, Cost: 1000, Size: 2, Asset: "power-plant"},
	TypePowerLine:       {Type: TypePowerLine, Kind: KindPowerLine, Cost: 10, Size: 1, Asset: "power-line"},
	TypeBank:            {Type: TypeBank, Kind: KindCivic, Cost: 2000, Size: 1, Asset: "bank"},
	TypeFireStation:     {Type: TypeFireStation, Kind: KindCivic, Cost: 300, Size: 1, Asset: "fire-station"},
	TypeHospital:        {Type: TypeHospital, Kind: KindCivic, Cost: 500, Size: 1, Asset: "hospital"},
	TypePolice:          {Type: TypePolice, Kind: KindCivic, Cost: 250, Size: 1, Asset: "police"},
	TypeSchool:          {Type: TypeSchool, Kind: KindCivic, Cost: 500, Size: 1, Asset: "school"},
	TypeSupermarket:     {Type: TypeSupermarket, Kind: KindCivic, Cost: 500, Size: 1, Asset: "supermarket"},
	TypeConcertHall:     {Type: TypeConcertHall, Kind: KindCivic, Cost: 1500, Size: 2, Asset: "concert-hall"},
	TypeRestaurant:      {Type: TypeRestaurant, Kind: KindCivic, Cost: 500, Size: 1, Asset: "restaurant"},
	TypeTownHall:        {Type: TypeTownHall, Kind: KindCivic, Cost: 0, Size: 2, Asset: "town-hall"},
}

func Lookup(t Type) (Spec, bool) {
	s, ok := catalog[t]
	return s, ok
}

func ParseType(raw string) (Type, error) {
	t := Type(raw)
	if _, ok := catalog[t]; !ok {
		return "", ErrUnrecognizedBuildingType
	}
	return t, nil
}

// Catalog lists every placeable type ordered by cost, then type.
func Catalog() []Spec {
	out := make([]Spec, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].Type < out[j].Type
	})
	return out
}
