package scoring

import (
	"strconv"
	"strings"
	"time"
)

// ActionKind classifies a ledger entry by the highest boundary the point
// crossed: a plain point, a point that closed a game, a set, or the match.
type ActionKind string

const (
	ActionPoint         ActionKind = "point"
	ActionPointSubtract ActionKind = "point_subtract"
	ActionGame          ActionKind = "game"
	ActionSet           ActionKind = "set"
	ActionMatch         ActionKind = "match"
)

// Pair holds one value per team.
type Pair struct {
	Black  int `json:"black"`
	Yellow int `json:"yellow"`
}

// Line is an immutable point-in-time view of the scoreboard. Entries copy it
// by value, so ledger history never aliases live state.
type Line struct {
	Scores Pair `json:"scores"`
	Games  Pair `json:"games"`
	Sets   Pair `json:"sets"`
}

type HistoryEntry struct {
	Timestamp time.Time  `json:"timestamp"`
	Action    ActionKind `json:"action"`
	Team      Team       `json:"team"`
	Before    Line       `json:"before"`
	After     Line       `json:"after"`
}

// Ledger is the append-only log of score-changing events. Entries are never
// rewritten; it is cleared only when the whole match state is replaced.
type Ledger []HistoryEntry

func (l *Ledger) Append(e HistoryEntry) { *l = append(*l, e) }

// SetBreakdown is a per-set statistics row derived from set history.
type SetBreakdown struct {
	SetNumber   int  `json:"setnumber"`
	BlackGames  int  `json:"blackgames"`
	YellowGames int  `json:"yellowgames"`
	SetWinner   Team `json:"setwinner"`
}

// Statistics are views computed on demand from the ledger and set history;
// they are never stored and are always consistent with the ledger at call
// time. Only "point" entries count as points won, so a game-winning stroke
// (recorded as "game") is not double counted.
type Statistics struct {
	TotalPoints   Pair           `json:"totalpoints"`
	TotalGames    Pair           `json:"totalgames"`
	SetsBreakdown []SetBreakdown `json:"setsbreakdown"`
}

func (l Ledger) Statistics(setHistory []string) Statistics {
	var stats Statistics
	for _, e := range l {
		switch e.Action {
		case ActionPoint:
			if e.Team == TeamBlack {
				stats.TotalPoints.Black++
			} else {
				stats.TotalPoints.Yellow++
			}
		case ActionGame:
			if e.Team == TeamBlack {
				stats.TotalGames.Black++
			} else {
				stats.TotalGames.Yellow++
			}
		}
	}
	for i, set := range setHistory {
		black, yellow, ok := parseSetGames(set)
		if !ok {
			continue
		}
		winner := TeamBlack
		if yellow > black {
			winner = TeamYellow
		}
		stats.SetsBreakdown = append(stats.SetsBreakdown, SetBreakdown{
			SetNumber:   i + 1,
			BlackGames:  black,
			YellowGames: yellow,
			SetWinner:   winner,
		})
	}
	return stats
}

// parseSetGames reads a finished-set string like "6-4", "7-6(5)" or
// "10-8(STB)", stripping the tie-break parenthetical.
func parseSetGames(s string) (black, yellow int, ok bool) {
	left, right, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	black, err := strconv.Atoi(stripParen(left))
	if err != nil {
		return 0, 0, false
	}
	yellow, err = strconv.Atoi(stripParen(right))
	if err != nil {
		return 0, 0, false
	}
	return black, yellow, true
}

func stripParen(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		return s[:i]
	}
	return s
}
