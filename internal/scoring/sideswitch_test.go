package scoring

import (
	"testing"
)

func TestCompetitionSwitchesOnOddGamesOnly(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)

	teams := []Team{TeamBlack, TeamYellow, TeamBlack, TeamYellow, TeamBlack}
	for i, team := range teams {
		res := winGame(e, team)
		total := i + 1
		if total%2 == 1 && res.SideSwitch == nil {
			t.Fatalf("game %d: no switch at odd total", total)
		}
		if total%2 == 0 && res.SideSwitch != nil {
			t.Fatalf("game %d: switch at even total: %+v", total, res.SideSwitch)
		}
		if res.SideSwitch != nil && res.SideSwitch.TotalGames != total {
			t.Fatalf("game %d: notice total = %d", total, res.SideSwitch.TotalGames)
		}
	}
}

func TestLockBehavesLikeCompetition(t *testing.T) {
	e := newTestEngine(t, OpModeLock)

	res := winGame(e, TeamYellow)
	if res.SideSwitch == nil || res.SideSwitch.GameScore != "0-1" {
		t.Fatalf("lock mode switch = %+v", res.SideSwitch)
	}
}

func TestSwitchConsumptionIsIdempotent(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)

	res := winGame(e, TeamBlack)
	if res.SideSwitch == nil {
		t.Fatal("no switch after first game")
	}

	snap, _ := e.State()
	if snap.ShouldSwitchSides {
		t.Fatal("pending flag survived consumption")
	}

	res = e.AddPoint(TeamBlack)
	if res.SideSwitch != nil {
		t.Fatalf("switch re-reported without a qualifying event: %+v", res.SideSwitch)
	}
}

func TestBasicNoSwitchAtMatchStart(t *testing.T) {
	e := newTestEngine(t, OpModeUnset)

	res, err := e.SetOperatingMode(OpModeBasic)
	if err != nil {
		t.Fatalf("SetOperatingMode: %v", err)
	}
	if res.SideSwitch != nil {
		t.Fatalf("switch at 0 sets 0 games: %+v", res.SideSwitch)
	}
}

func TestBasicSwitchesOnceAtSetStart(t *testing.T) {
	e := newTestEngine(t, OpModeBasic)

	// No mid-set switches in Basic mode.
	for i := 0; i < 5; i++ {
		if res := winGame(e, TeamBlack); res.SideSwitch != nil {
			t.Fatalf("basic mode switched mid-set after game %d", i+1)
		}
	}

	res := winGame(e, TeamBlack) // completes the set 6-0
	if res.State.Set1 != 1 {
		t.Fatalf("set not complete: %+v", res.State)
	}
	if res.SideSwitch == nil {
		t.Fatal("no switch at start of second set")
	}
	if res.SideSwitch.TotalGames != 0 || res.SideSwitch.SetScore != "1-0" || res.SideSwitch.GameScore != "0-0" {
		t.Fatalf("switch notice = %+v", res.SideSwitch)
	}

	// One-shot: the next point must not re-fire it.
	if res = e.AddPoint(TeamYellow); res.SideSwitch != nil {
		t.Fatalf("basic switch fired twice: %+v", res.SideSwitch)
	}
}

func TestBasicModeSelectionReevaluatesSetStart(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	winSet(e, TeamBlack)

	res, err := e.SetOperatingMode(OpModeBasic)
	if err != nil {
		t.Fatalf("SetOperatingMode: %v", err)
	}
	if res.SideSwitch == nil || res.SideSwitch.SetScore != "1-0" {
		t.Fatalf("switch on basic selection = %+v", res.SideSwitch)
	}

	// Selecting a mode clears the one-shot flag, so re-selecting Basic
	// before a new set fires again by design of the flag reset.
	snap, _ := e.State()
	if snap.InitialSwitchDone != true {
		t.Fatalf("one-shot flag not set: %+v", snap)
	}
}

func TestNoSwitchOnceMatchWon(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	winSet(e, TeamBlack)
	res := winSet(e, TeamBlack)

	if !res.MatchWon {
		t.Fatal("match not won")
	}
	if res.SideSwitch != nil {
		t.Fatalf("switch reported on match win: %+v", res.SideSwitch)
	}

	if _, err := e.SetOperatingMode(OpModeBasic); err != nil {
		t.Fatalf("SetOperatingMode: %v", err)
	}
	snap, _ := e.State()
	if snap.ShouldSwitchSides {
		t.Fatal("basic switch armed after match won")
	}
}
