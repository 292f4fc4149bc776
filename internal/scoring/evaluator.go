package scoring

import (
	"fmt"
	"strings"
	"time"
)

// SetMatchEvaluator detects game, set, tie-break and match completion and
// applies the resulting transitions to MatchState. It is invoked by the
// engine whenever a win condition fires; it never runs on its own.
type SetMatchEvaluator struct {
	clock     func() time.Time
	names     TeamNames
	summaries *SummaryStore
	switches  SideSwitchPolicy
}

// AfterGameWin runs after a Normal-mode game has been credited and the point
// counters reset. It awards a set on a two-game lead at six or more games,
// or enters the applicable tie-break regime at six games all.
func (e *SetMatchEvaluator) AfterGameWin(st *MatchState, team Team) {
	own, opp := st.Games[team], st.Games[team.Opponent()]
	if own >= 6 && own-opp >= 2 {
		e.completeSet(st, team, st.gameScore())
		return
	}

	if st.Games[TeamBlack] == 6 && st.Games[TeamYellow] == 6 && st.Mode == ModeNormal {
		switch {
		case st.Sets[TeamBlack] == 1 && st.Sets[TeamYellow] == 1:
			st.Mode = ModeSuperTieBreak
			st.resetPoints()
		case st.Sets[TeamBlack]+st.Sets[TeamYellow] <= 1:
			st.Mode = ModeTieBreak
			st.resetPoints()
		}
	}
}

// WinTieBreak awards the set to the tie-break winner, recording the losing
// side's tie-break points in the parenthetical.
func (e *SetMatchEvaluator) WinTieBreak(st *MatchState, team Team) {
	oppPoints := st.Points[team.Opponent()]
	record := fmt.Sprintf("7-6(%d)", oppPoints)
	if team == TeamYellow {
		record = fmt.Sprintf("6-7(%d)", oppPoints)
	}
	e.completeSet(st, team, record)
}

// WinSuperTieBreak awards the deciding set, annotated "(STB)".
func (e *SetMatchEvaluator) WinSuperTieBreak(st *MatchState, team Team) {
	record := fmt.Sprintf("10-%d(STB)", st.Points[TeamYellow])
	if team == TeamYellow {
		record = fmt.Sprintf("%d-10(STB)", st.Points[TeamBlack])
	}
	e.completeSet(st, team, record)
}

// completeSet applies a set-completion event: set counter +1, finished set
// appended to history, game and point counters back to zero, side-switch
// bookkeeping reset for the new set. Tie-break completions re-enter this
// path, so the match-win check below covers them too.
func (e *SetMatchEvaluator) completeSet(st *MatchState, team Team, record string) {
	before := st.line()

	st.Sets[team]++
	st.SetHistory = append(st.SetHistory, record)
	st.Games[TeamBlack], st.Games[TeamYellow] = 0, 0
	st.GamesAtSwitch = 0
	st.SwitchPending = false
	st.InitialSwitchDone = false
	st.resetPoints()
	st.Mode = ModeNormal

	st.History.Append(HistoryEntry{
		Timestamp: e.clock(),
		Action:    ActionSet,
		Team:      team,
		Before:    before,
		After:     st.line(),
	})

	if !e.checkMatchWin(st, team) {
		e.switches.AtSetStart(st)
	}
}

// checkMatchWin freezes the state once a team holds two sets: end timestamp,
// winner descriptor, terminal "match" ledger entry and the summary slot.
// Side-switch evaluation is permanently skipped from here on.
func (e *SetMatchEvaluator) checkMatchWin(st *MatchState, team Team) bool {
	if st.Sets[team] != 2 {
		return false
	}

	st.MatchWon = true
	st.MatchEnd = e.clock()

	st.Winner = &Winner{
		Team:          team,
		TeamName:      e.names.For(team),
		FinalSets:     st.setScore(),
		MatchSummary:  strings.Join(st.SetHistory, ", "),
		TotalGamesWon: aggregateGames(st.SetHistory, team) + st.Games[team],
		MatchDuration: fmt.Sprintf("%d minutes", int(st.MatchEnd.Sub(st.MatchStart).Minutes())),
	}

	line := st.line()
	st.History.Append(HistoryEntry{
		Timestamp: e.clock(),
		Action:    ActionMatch,
		Team:      team,
		Before:    line,
		After:     line,
	})

	e.storeSummary(st)
	return true
}

func (e *SetMatchEvaluator) storeSummary(st *MatchState) {
	stats := st.History.Statistics(st.SetHistory)

	setsDisplay := make([]string, 0, len(stats.SetsBreakdown))
	for _, b := range stats.SetsBreakdown {
		setsDisplay = append(setsDisplay, fmt.Sprintf("%d-%d", b.BlackGames, b.YellowGames))
	}

	seconds := int(st.MatchEnd.Sub(st.MatchStart).Seconds())
	duration := fmt.Sprintf("%ds", seconds)
	if minutes := seconds / 60; minutes > 0 {
		duration = fmt.Sprintf("%dm %ds", minutes, seconds%60)
	}

	e.summaries.Put(Summary{
		WinnerTeam:     st.Winner.Team,
		WinnerName:     st.Winner.TeamName,
		FinalSetsScore: st.Winner.FinalSets,
		DetailedSets:   setsDisplay,
		MatchDuration:  duration,
		TotalPointsWon: stats.TotalPoints,
		TotalGamesWon:  stats.TotalGames,
		SetsBreakdown:  stats.SetsBreakdown,
		MatchSummary: fmt.Sprintf("Sets: %s | Points: %d-%d | Games: %d-%d",
			strings.Join(setsDisplay, ", "),
			stats.TotalPoints.Black, stats.TotalPoints.Yellow,
			stats.TotalGames.Black, stats.TotalGames.Yellow),
		Timestamp: st.MatchEnd,
	})
}

// aggregateGames totals one column of the finished-set strings. Tie-break
// sets contribute their recorded numerals (7-6, 10-8), matching what the
// board displays for games won.
func aggregateGames(setHistory []string, t Team) int {
	total := 0
	for _, s := range setHistory {
		black, yellow, ok := parseSetGames(s)
		if !ok {
			continue
		}
		if t == TeamBlack {
			total += black
		} else {
			total += yellow
		}
	}
	return total
}
