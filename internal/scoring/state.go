package scoring

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mode is the scoring phase the current game is played under. Exactly one is
// active at any time; tie-break phases replace the tennis point progression
// with raw point counting.
type Mode int

const (
	ModeNormal Mode = iota
	ModeTieBreak
	ModeSuperTieBreak
)

func (m Mode) String() string {
	switch m {
	case ModeTieBreak:
		return "tiebreak"
	case ModeSuperTieBreak:
		return "supertiebreak"
	default:
		return "normal"
	}
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// OperatingMode is the operator-selected policy. While unset, scoring calls
// are observed but never change state, so a UI can auto-select a mode from
// the first gesture without corrupting a real match.
type OperatingMode int

const (
	OpModeUnset OperatingMode = iota
	OpModeBasic
	OpModeCompetition
	OpModeLock
)

func (m OperatingMode) Valid() bool {
	return m >= OpModeUnset && m <= OpModeLock
}

func (m OperatingMode) String() string {
	switch m {
	case OpModeBasic:
		return "basic"
	case OpModeCompetition:
		return "competition"
	case OpModeLock:
		return "lock"
	default:
		return ""
	}
}

func (m OperatingMode) MarshalJSON() ([]byte, error) {
	if m == OpModeUnset {
		return []byte("null"), nil
	}
	return []byte(`"` + m.String() + `"`), nil
}

// ParseOperatingMode maps the wire values; the empty string clears the mode.
func ParseOperatingMode(s string) (OperatingMode, error) {
	switch s {
	case "":
		return OpModeUnset, nil
	case "basic":
		return OpModeBasic, nil
	case "competition":
		return OpModeCompetition, nil
	case "lock":
		return OpModeLock, nil
	default:
		return OpModeUnset, fmt.Errorf("invalid mode %q", s)
	}
}

// Winner describes the side that took the match.
type Winner struct {
	Team          Team   `json:"team"`
	TeamName      string `json:"teamname"`
	FinalSets     string `json:"finalsets"`
	MatchSummary  string `json:"matchsummary"`
	TotalGamesWon int    `json:"totalgameswon"`
	MatchDuration string `json:"matchduration"`
}

// MatchState is the authoritative mutable model for the open match. It has no
// internal locking: the host must serialize every mutation (see Engine).
type MatchState struct {
	MatchID string

	Points [2]int // raw point counters
	Scores [2]int // display scores (0/15/30/40 in Normal, raw otherwise)
	Games  [2]int
	Sets   [2]int

	SetHistory []string
	History    Ledger

	Mode          Mode
	OperatingMode OperatingMode

	MatchWon bool
	Winner   *Winner

	MatchStart  time.Time
	MatchEnd    time.Time // zero until the match is won
	LastUpdated time.Time

	// Side-switch bookkeeping.
	SwitchPending     bool
	GamesAtSwitch     int
	InitialSwitchDone bool
}

// NewMatchState returns the all-zero state a match starts (and resets) to.
func NewMatchState(now time.Time) *MatchState {
	return &MatchState{
		MatchID:     uuid.NewString(),
		MatchStart:  now,
		LastUpdated: now,
	}
}

func (s *MatchState) line() Line {
	return Line{
		Scores: Pair{Black: s.Scores[TeamBlack], Yellow: s.Scores[TeamYellow]},
		Games:  Pair{Black: s.Games[TeamBlack], Yellow: s.Games[TeamYellow]},
		Sets:   Pair{Black: s.Sets[TeamBlack], Yellow: s.Sets[TeamYellow]},
	}
}

func (s *MatchState) gameScore() string {
	return fmt.Sprintf("%d-%d", s.Games[TeamBlack], s.Games[TeamYellow])
}

func (s *MatchState) setScore() string {
	return fmt.Sprintf("%d-%d", s.Sets[TeamBlack], s.Sets[TeamYellow])
}

func (s *MatchState) resetPoints() {
	s.Points[TeamBlack], s.Points[TeamYellow] = 0, 0
	s.Scores[TeamBlack], s.Scores[TeamYellow] = 0, 0
}

// refreshDisplay recomputes the display scores from the raw counters.
func (s *MatchState) refreshDisplay() {
	if s.Mode == ModeNormal {
		s.Scores[TeamBlack] = displayPoint(s.Points[TeamBlack])
		s.Scores[TeamYellow] = displayPoint(s.Points[TeamYellow])
		return
	}
	s.Scores[TeamBlack] = s.Points[TeamBlack]
	s.Scores[TeamYellow] = s.Points[TeamYellow]
}

// displayPoint maps a raw counter to the tennis ladder. Raw 3 and above show
// as 40; the win check fires at raw 4 with a two point lead, so 40 is
// transient during deuce play.
func displayPoint(raw int) int {
	switch raw {
	case 0:
		return 0
	case 1:
		return 15
	case 2:
		return 30
	default:
		return 40
	}
}

// Snapshot is a deep read-only copy of MatchState handed to callers: history
// slices are copied so later engine mutations never alias into it.
type Snapshot struct {
	MatchID string `json:"matchid"`

	Point1 int `json:"point1"`
	Point2 int `json:"point2"`
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
	Game1  int `json:"game1"`
	Game2  int `json:"game2"`
	Set1   int `json:"set1"`
	Set2   int `json:"set2"`

	MatchWon bool    `json:"matchwon"`
	Winner   *Winner `json:"winner"`

	SetHistory   []string       `json:"sethistory"`
	MatchHistory []HistoryEntry `json:"matchhistory"`

	MatchStartTime time.Time  `json:"matchstarttime"`
	MatchEndTime   *time.Time `json:"matchendtime"`
	LastUpdated    time.Time  `json:"lastupdated"`

	ShouldSwitchSides bool `json:"shouldswitchsides"`
	TotalGamesInSet   int  `json:"totalgamesinset"`
	InitialSwitchDone bool `json:"initial_switch_done"`

	Mode          Mode          `json:"mode"`
	OperatingMode OperatingMode `json:"gamemode"`
}

func (s *MatchState) Snapshot() Snapshot {
	snap := Snapshot{
		MatchID:           s.MatchID,
		Point1:            s.Points[TeamBlack],
		Point2:            s.Points[TeamYellow],
		Score1:            s.Scores[TeamBlack],
		Score2:            s.Scores[TeamYellow],
		Game1:             s.Games[TeamBlack],
		Game2:             s.Games[TeamYellow],
		Set1:              s.Sets[TeamBlack],
		Set2:              s.Sets[TeamYellow],
		MatchWon:          s.MatchWon,
		SetHistory:        append([]string(nil), s.SetHistory...),
		MatchHistory:      append([]HistoryEntry(nil), s.History...),
		MatchStartTime:    s.MatchStart,
		LastUpdated:       s.LastUpdated,
		ShouldSwitchSides: s.SwitchPending,
		TotalGamesInSet:   s.GamesAtSwitch,
		InitialSwitchDone: s.InitialSwitchDone,
		Mode:              s.Mode,
		OperatingMode:     s.OperatingMode,
	}
	if s.Winner != nil {
		w := *s.Winner
		snap.Winner = &w
	}
	if !s.MatchEnd.IsZero() {
		end := s.MatchEnd
		snap.MatchEndTime = &end
	}
	return snap
}
