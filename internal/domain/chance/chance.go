package chance

import "math/rand/v2"

// Source yields uniform draws in [0,1).
type Source interface {
	Float64() float64
}

// Roll draws once from src and reports draw < p.
func Roll(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick draws once from src and returns an index in [0,n).
func Pick(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sequence replays fixed draws in order and repeats the last one when exhausted.
type Sequence struct {
	draws []float64
	next  int
}

func NewSequence(draws ...float64) *Sequence {
	if len(draws) == 0 {
		draws = []float64{0}
	}
	return &Sequence{draws: draws}
}

func (s *Sequence) Float64() float64 {
	if s.next >= len(s.draws) {
		return s.draws[len(s.draws)-1]
	}
	v := s.draws[s.next]
	s.next++
	return v
}

// Drawn reports how many draws have been consumed.
func (s *Sequence) Drawn() int { return s.next }
