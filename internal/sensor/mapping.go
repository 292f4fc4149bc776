package sensor

import (
	"sync"
	"time"

	"github.com/padeltech/padelboard/internal/scoring"
)

// Pico names as reported by the bridge.
const (
	Pico1 = "PICO_1"
	Pico2 = "PICO_2"
)

// Mapping assigns each Pico to the team whose side it watches. Swapped when
// the sensors are physically moved, or after players change ends without
// moving the hardware.
type Mapping struct {
	mu       sync.Mutex
	teams    map[string]scoring.Team
	lastSwap time.Time
}

func NewMapping() *Mapping {
	return &Mapping{teams: map[string]scoring.Team{
		Pico1: scoring.TeamBlack,
		Pico2: scoring.TeamYellow,
	}}
}

func (m *Mapping) TeamFor(pico string) scoring.Team {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teams[pico]
}

// Swap exchanges the two assignments and returns the new view.
func (m *Mapping) Swap() MappingView {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[Pico1], m.teams[Pico2] = m.teams[Pico2], m.teams[Pico1]
	m.lastSwap = time.Now()
	return m.viewLocked()
}

type MappingView struct {
	Pico1Team scoring.Team `json:"pico_1_team"`
	Pico2Team scoring.Team `json:"pico_2_team"`
	LastSwap  *time.Time   `json:"last_swap"`
}

func (m *Mapping) View() MappingView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Mapping) viewLocked() MappingView {
	v := MappingView{Pico1Team: m.teams[Pico1], Pico2Team: m.teams[Pico2]}
	if !m.lastSwap.IsZero() {
		t := m.lastSwap
		v.LastSwap = &t
	}
	return v
}
