package scoring

import (
	"testing"
	"time"
)

func TestSummaryStoreLifecycle(t *testing.T) {
	s := NewSummaryStore()

	if _, _, err := s.Get(); err != ErrNoSummary {
		t.Fatalf("empty get err = %v", err)
	}
	if err := s.Acknowledge(false); err != ErrNoSummary {
		t.Fatalf("empty acknowledge err = %v", err)
	}
	if s.Available() {
		t.Fatal("empty store reports available")
	}

	s.Put(Summary{WinnerName: "BLACK TEAM", FinalSetsScore: "2-0", Timestamp: time.Now()})
	if !s.Available() {
		t.Fatal("store not available after put")
	}

	sum, displayed, err := s.Get()
	if err != nil || displayed {
		t.Fatalf("get: %v displayed=%v", err, displayed)
	}
	if sum.FinalSetsScore != "2-0" {
		t.Fatalf("summary = %+v", sum)
	}

	if err := s.Acknowledge(false); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if s.Available() {
		t.Fatal("available after acknowledge")
	}
	if _, displayed, _ := s.Get(); !displayed {
		t.Fatal("displayed flag not set")
	}
}

func TestSummaryAcknowledgeWithWipe(t *testing.T) {
	s := NewSummaryStore()
	s.Put(Summary{WinnerName: "YELLOW TEAM"})

	if err := s.Acknowledge(true); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if _, _, err := s.Get(); err != ErrNoSummary {
		t.Fatalf("get after wipe err = %v", err)
	}
}

func TestSecondWinOverwritesSlot(t *testing.T) {
	s := NewSummaryStore()
	s.Put(Summary{WinnerName: "BLACK TEAM"})
	s.Put(Summary{WinnerName: "YELLOW TEAM"})

	sum, displayed, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if displayed || sum.WinnerName != "YELLOW TEAM" {
		t.Fatalf("slot = %+v displayed=%v", sum, displayed)
	}
}

func TestEngineSummaryContents(t *testing.T) {
	e := newTestEngine(t, OpModeCompetition)
	winSet(e, TeamBlack)
	winSet(e, TeamBlack)

	sum, _, err := e.Summaries().Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sum.WinnerTeam != TeamBlack || sum.WinnerName != "BLACK TEAM" {
		t.Fatalf("winner = %q/%v", sum.WinnerName, sum.WinnerTeam)
	}
	if len(sum.DetailedSets) != 2 || sum.DetailedSets[0] != "6-0" {
		t.Fatalf("detailed sets = %v", sum.DetailedSets)
	}
	// 6 games per set, 4 points per game.
	if sum.TotalGamesWon.Black != 12 || sum.TotalGamesWon.Yellow != 0 {
		t.Fatalf("total games = %+v", sum.TotalGamesWon)
	}
	if sum.TotalPointsWon.Black != 36 {
		t.Fatalf("total points = %+v", sum.TotalPointsWon)
	}
	if sum.MatchSummary == "" || sum.MatchDuration == "" {
		t.Fatalf("summary text missing: %+v", sum)
	}
}
