package scoring

import (
	"errors"
	"time"
)

// ErrNoSummary is returned when the summary slot holds no completed match.
var ErrNoSummary = errors.New("no completed match data")

// Summary is the retained result of the last completed match.
type Summary struct {
	WinnerTeam     Team           `json:"winnerteam"`
	WinnerName     string         `json:"winnername"`
	FinalSetsScore string         `json:"finalsetsscore"`
	DetailedSets   []string       `json:"detailedsets"`
	MatchDuration  string         `json:"matchduration"`
	TotalPointsWon Pair           `json:"totalpointswon"`
	TotalGamesWon  Pair           `json:"totalgameswon"`
	SetsBreakdown  []SetBreakdown `json:"setsbreakdown"`
	MatchSummary   string         `json:"matchsummary"`
	Timestamp      time.Time      `json:"timestamp"`
}

// SummaryStore is the single-slot cache of the last completed match. A second
// match win before the prior summary is acknowledged overwrites the slot.
// Like MatchState it relies on the host for serialization.
type SummaryStore struct {
	completed bool
	displayed bool
	data      Summary
}

func NewSummaryStore() *SummaryStore { return &SummaryStore{} }

func (s *SummaryStore) Put(sum Summary) {
	s.completed = true
	s.displayed = false
	s.data = sum
}

// Get returns the stored summary and whether it has been displayed.
func (s *SummaryStore) Get() (Summary, bool, error) {
	if !s.completed {
		return Summary{}, false, ErrNoSummary
	}
	return s.data, s.displayed, nil
}

// Available reports whether a summary is waiting to be shown.
func (s *SummaryStore) Available() bool {
	return s.completed && !s.displayed
}

// Acknowledge marks the summary as displayed and optionally wipes the slot
// immediately.
func (s *SummaryStore) Acknowledge(wipe bool) error {
	if !s.completed {
		return ErrNoSummary
	}
	s.displayed = true
	if wipe {
		s.Wipe()
	}
	return nil
}

func (s *SummaryStore) Wipe() {
	*s = SummaryStore{}
}
