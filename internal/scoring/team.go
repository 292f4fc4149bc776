package scoring

import "fmt"

// Team identifies one of the two padel pairs on court.
type Team int

const (
	TeamBlack Team = iota
	TeamYellow
)

func (t Team) String() string {
	if t == TeamYellow {
		return "yellow"
	}
	return "black"
}

func (t Team) Opponent() Team {
	if t == TeamBlack {
		return TeamYellow
	}
	return TeamBlack
}

func (t Team) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func ParseTeam(s string) (Team, error) {
	switch s {
	case "black":
		return TeamBlack, nil
	case "yellow":
		return TeamYellow, nil
	default:
		return TeamBlack, fmt.Errorf("unknown team %q", s)
	}
}

// TeamNames maps a Team to the display name broadcast with the winner.
type TeamNames [2]string

func DefaultTeamNames() TeamNames {
	return TeamNames{"BLACK TEAM", "YELLOW TEAM"}
}

func (n TeamNames) For(t Team) string { return n[t] }
