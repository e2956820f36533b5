package development

import "citysim/internal/domain/chance"

type State string

const (
	StateUndeveloped       State = "undeveloped"
	StateUnderConstruction State = "under_construction"
	StateDeveloped         State = "developed"
	StateAbandoned         State = "abandoned"
)

type Config struct {
	// Consecutive developed ticks meeting the abandonment criterion before
	// abandonment may be rolled.
	AbandonThreshold int     `yaml:"abandon_threshold"`
	AbandonChance    float64 `yaml:"abandon_chance"`
	ConstructionTime int     `yaml:"construction_time"`
	LevelUpChance    float64 `yaml:"level_up_chance"`
	RedevelopChance  float64 `yaml:"redevelop_chance"`

	RequireRoadAccess  bool `yaml:"require_road_access"`
	RequirePower       bool `yaml:"require_power"`
	RoadAccessDistance int  `yaml:"road_access_distance"`
}

func DefaultConfig() Config {
	return Config{
		AbandonThreshold:   10,
		AbandonChance:      0.25,
		ConstructionTime:   3,
		LevelUpChance:      0,
		RedevelopChance:    0.25,
		RoadAccessDistance: 3,
	}
}

// Criteria is what the owning zone reports to the module for one tick.
type Criteria struct {
	// Ready holds while the zone's development prerequisites are satisfied.
	Ready bool
	// Abandon holds while the zone's abandonment criterion is met.
	Abandon bool
}

type Transition struct {
	From      State
	To        State
	LevelFrom int
	LevelTo   int
}

func (t Transition) Changed() bool {
	return t.From != t.To || t.LevelFrom != t.LevelTo
}

type Module struct {
	cfg               Config
	state             State
	level             int
	constructionTicks int
	abandonTicks      int
}

func New(cfg Config) *Module {
	if cfg.AbandonThreshold < 0 {
		cfg.AbandonThreshold = 0
	}
	if cfg.ConstructionTime < 1 {
		cfg.ConstructionTime = 1
	}
	return &Module{cfg: cfg, state: StateUndeveloped, level: 1}
}

func (m *Module) State() State           { return m.state }
func (m *Module) Level() int             { return m.level }
func (m *Module) AbandonCounter() int    { return m.abandonTicks }
func (m *Module) ConstructionTicks() int { return m.constructionTicks }
func (m *Module) Developed() bool        { return m.state == StateDeveloped }

// Simulate advances the state machine by one tick.
func (m *Module) Simulate(c Criteria, rnd chance.Source) Transition {
	t := Transition{From: m.state, LevelFrom: m.level}

	switch m.state {
	case StateUndeveloped:
		m.abandonTicks = 0
		if c.Ready {
			m.state = StateUnderConstruction
			m.constructionTicks = 0
		}
	case StateUnderConstruction:
		m.abandonTicks = 0
		m.constructionTicks++
		if m.constructionTicks >= m.cfg.ConstructionTime {
			m.state = StateDeveloped
			m.level = 1
			m.constructionTicks = 0
		}
	case StateDeveloped:
		if !c.Ready {
			m.state = StateUndeveloped
			m.level = 1
			m.abandonTicks = 0
			break
		}
		if m.shouldAbandon(c.Abandon, rnd) {
			m.state = StateAbandoned
			m.abandonTicks = 0
			break
		}
		if chance.Roll(rnd, m.cfg.LevelUpChance) {
			m.level++
		}
	case StateAbandoned:
		if chance.Roll(rnd, m.cfg.RedevelopChance) {
			m.state = StateDeveloped
			m.level = 1
		}
	}

	t.To = m.state
	t.LevelTo = m.level
	return t
}

func (m *Module) shouldAbandon(criterionMet bool, rnd chance.Source) bool {
	if !criterionMet {
		m.abandonTicks = 0
		return false
	}
	if m.abandonTicks < m.cfg.AbandonThreshold {
		m.abandonTicks++
		return false
	}
	return chance.Roll(rnd, m.cfg.AbandonChance)
}
