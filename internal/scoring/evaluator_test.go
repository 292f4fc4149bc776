package scoring

import (
	"testing"
)

func TestSetWinResetsGames(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	res := winSet(e, TeamBlack)

	if res.State.Set1 != 1 || res.State.Set2 != 0 {
		t.Fatalf("sets = %d-%d, want 1-0", res.State.Set1, res.State.Set2)
	}
	if res.State.Game1 != 0 || res.State.Game2 != 0 {
		t.Fatalf("games after set = %d-%d, want 0-0", res.State.Game1, res.State.Game2)
	}
	if len(res.State.SetHistory) != 1 || res.State.SetHistory[0] != "6-0" {
		t.Fatalf("set history = %v, want [6-0]", res.State.SetHistory)
	}
}

func TestSetWinNeedsTwoGameLead(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	gamesTo(t, e, 5, 5)

	res := winGame(e, TeamBlack) // 6-5: no set yet
	if res.State.Set1 != 0 {
		t.Fatalf("set awarded at 6-5")
	}
	res = winGame(e, TeamBlack) // 7-5: set
	if res.State.Set1 != 1 {
		t.Fatalf("no set at 7-5: %+v", res.State)
	}
	if res.State.SetHistory[0] != "7-5" {
		t.Fatalf("set history = %v", res.State.SetHistory)
	}
}

func TestTieBreakEntryAtSixAll(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	gamesTo(t, e, 6, 6)

	snap, _ := e.State()
	if snap.Mode != ModeTieBreak {
		t.Fatalf("mode = %v, want tiebreak", snap.Mode)
	}
	if snap.Point1 != 0 || snap.Point2 != 0 || snap.Score1 != 0 || snap.Score2 != 0 {
		t.Fatalf("points not reset on tie-break entry: %+v", snap)
	}
	if snap.Set1 != 0 || snap.Set2 != 0 {
		t.Fatalf("sets changed on tie-break entry: %d-%d", snap.Set1, snap.Set2)
	}
}

func TestTieBreakDisplayIsRaw(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	gamesTo(t, e, 6, 6)

	res := addPoints(e, TeamYellow, 5)
	if res.State.Score2 != 5 || res.State.Score1 != 0 {
		t.Fatalf("tie-break display = %d-%d, want 0-5", res.State.Score1, res.State.Score2)
	}
}

func TestTieBreakAwardsSet(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	gamesTo(t, e, 6, 6)

	addPoints(e, TeamBlack, 5)
	res := addPoints(e, TeamYellow, 7)

	if res.Action != ActionSet {
		t.Fatalf("action = %q, want set", res.Action)
	}
	if res.State.Set1 != 0 || res.State.Set2 != 1 {
		t.Fatalf("sets = %d-%d, want 0-1", res.State.Set1, res.State.Set2)
	}
	if got := res.State.SetHistory[0]; got != "6-7(5)" {
		t.Fatalf("set record = %q, want 6-7(5)", got)
	}
	if res.State.Mode != ModeNormal {
		t.Fatalf("mode = %v, want normal after tie-break", res.State.Mode)
	}
	if res.State.Game1 != 0 || res.State.Game2 != 0 {
		t.Fatalf("games = %d-%d after tie-break, want 0-0", res.State.Game1, res.State.Game2)
	}
}

func TestTieBreakNeedsTwoPointLead(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	gamesTo(t, e, 6, 6)

	addPoints(e, TeamBlack, 6)
	res := addPoints(e, TeamYellow, 7) // 6-7: one point lead only
	if res.Action != ActionPoint || res.State.Set2 != 0 {
		t.Fatalf("set awarded without two point lead: %+v", res.State)
	}

	res = e.AddPoint(TeamYellow) // 6-8
	if res.Action != ActionSet || res.State.Set2 != 1 {
		t.Fatalf("set not awarded at 6-8: %+v", res.State)
	}
	if got := res.State.SetHistory[0]; got != "6-7(6)" {
		t.Fatalf("set record = %q, want 6-7(6)", got)
	}
}

func TestSuperTieBreakEntryAtOneSetAll(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	winSet(e, TeamBlack)
	winSet(e, TeamYellow)
	gamesTo(t, e, 6, 6)

	snap, _ := e.State()
	if snap.Mode != ModeSuperTieBreak {
		t.Fatalf("mode = %v, want supertiebreak", snap.Mode)
	}
	if snap.Point1 != 0 || snap.Point2 != 0 {
		t.Fatal("points not reset on super-tie-break entry")
	}
}

func TestSuperTieBreakDecidesMatch(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	winSet(e, TeamBlack)
	winSet(e, TeamYellow)
	gamesTo(t, e, 6, 6)

	addPoints(e, TeamYellow, 8)
	res := addPoints(e, TeamBlack, 10)

	if !res.MatchWon || res.Winner == nil {
		t.Fatalf("match not won: %+v", res)
	}
	if res.Winner.Team != TeamBlack || res.Winner.FinalSets != "2-1" {
		t.Fatalf("winner = %+v", res.Winner)
	}
	want := []string{"6-0", "0-6", "10-8(STB)"}
	if len(res.State.SetHistory) != 3 {
		t.Fatalf("set history = %v", res.State.SetHistory)
	}
	for i, s := range want {
		if res.State.SetHistory[i] != s {
			t.Fatalf("set history[%d] = %q, want %q", i, res.State.SetHistory[i], s)
		}
	}
	// Aggregate games parse the set numerals, STB included.
	if res.Winner.TotalGamesWon != 16 {
		t.Fatalf("total games won = %d, want 16", res.Winner.TotalGamesWon)
	}

	last := res.State.MatchHistory[len(res.State.MatchHistory)-1]
	if last.Action != ActionMatch || last.Team != TeamBlack {
		t.Fatalf("terminal history entry = %+v", last)
	}

	sum, displayed, err := e.Summaries().Get()
	if err != nil || displayed {
		t.Fatalf("summary get: %v displayed=%v", err, displayed)
	}
	if sum.WinnerTeam != TeamBlack || sum.FinalSetsScore != "2-1" {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestGameCountersZeroAfterEverySetCompletion(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)

	// Normal set, tie-break set, super tie-break.
	winSet(e, TeamBlack)
	gamesTo(t, e, 6, 6)
	addPoints(e, TeamYellow, 7)
	snap, _ := e.State()
	if snap.Game1 != 0 || snap.Game2 != 0 {
		t.Fatalf("games after tie-break set = %d-%d", snap.Game1, snap.Game2)
	}

	gamesTo(t, e, 6, 6)
	res := addPoints(e, TeamYellow, 10)
	if res.State.Game1 != 0 || res.State.Game2 != 0 {
		t.Fatalf("games after super tie-break = %d-%d", res.State.Game1, res.State.Game2)
	}
	if !res.MatchWon || res.Winner.Team != TeamYellow {
		t.Fatalf("expected yellow match win, got %+v", res.Winner)
	}
}

func TestSetCounterIncrementsByExactlyOne(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)

	prev := 0
	for i := 0; i < 2; i++ {
		res := winSet(e, TeamYellow)
		if res.State.Set2 != prev+1 {
			t.Fatalf("set counter jumped from %d to %d", prev, res.State.Set2)
		}
		prev = res.State.Set2
	}
}
