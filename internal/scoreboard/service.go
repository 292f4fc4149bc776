// Package scoreboard hosts the scoring engine behind its serialization
// boundary. The engine itself has no locking; every event source (HTTP
// handler, sensor detection) goes through Service, which holds the mutex for
// one whole operation and fans results out to the journal and push hub.
package scoreboard

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/padeltech/padelboard/internal/journal"
	"github.com/padeltech/padelboard/internal/push"
	"github.com/padeltech/padelboard/internal/scoring"
)

// Journal is the durable event sink. Optional: a nil journal disables it.
type Journal interface {
	Append(ctx context.Context, e journal.Event) error
	Truncate(ctx context.Context) error
	SaveResult(ctx context.Context, matchID, winner, dataJSON string) error
}

// Broadcaster pushes events to connected displays. Optional.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type Service struct {
	mu      sync.Mutex
	engine  *scoring.Engine
	journal Journal
	hub     Broadcaster
}

func NewService(engine *scoring.Engine, j Journal, hub Broadcaster) *Service {
	return &Service{engine: engine, journal: j, hub: hub}
}

// AddPoint scores one point for team and broadcasts the outcome.
func (s *Service) AddPoint(ctx context.Context, team scoring.Team) scoring.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.engine.AddPoint(team)
	switch res.Outcome {
	case scoring.OutcomeIgnored:
		// Observed but not scored: echo the gesture so a UI can offer
		// mode selection from it.
		s.broadcast(push.EventPointScored, pointEvent{Team: team, Action: "addpoint", GameState: res.State})
		return res
	case scoring.OutcomeMatchCompleted:
		return res
	}

	s.record(ctx, team, res)
	if res.SideSwitch != nil {
		s.broadcast(push.EventSideSwitch, res.SideSwitch)
	}
	s.broadcast(push.EventGameState, res.State)
	if res.MatchWon {
		s.broadcast(push.EventMatchWon, matchWonEvent{Winner: res.Winner, GameState: res.State})
		s.saveResult(ctx, res)
	} else {
		s.broadcast(push.EventPointScored, pointEvent{Team: team, Action: string(res.Action), GameState: res.State})
	}
	return res
}

// SubtractPoint removes one raw point with a floor of zero.
func (s *Service) SubtractPoint(ctx context.Context, team scoring.Team) scoring.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.engine.SubtractPoint(team)
	switch res.Outcome {
	case scoring.OutcomeIgnored:
		s.broadcast(push.EventPointScored, pointEvent{Team: team, Action: "subtractpoint", GameState: res.State})
		return res
	case scoring.OutcomeMatchCompleted:
		return res
	}

	s.record(ctx, team, res)
	s.broadcast(push.EventGameState, res.State)
	return res
}

// SetOperatingMode selects the side-switch/scoring policy.
func (s *Service) SetOperatingMode(ctx context.Context, mode scoring.OperatingMode) (scoring.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.SetOperatingMode(mode)
	if err != nil {
		return res, err
	}
	s.broadcast(push.EventGameState, res.State)
	if res.SideSwitch != nil {
		s.broadcast(push.EventSideSwitch, res.SideSwitch)
	}
	return res, nil
}

// Reset reinitializes the match and wipes the journal and summary slot.
func (s *Service) Reset(ctx context.Context) scoring.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.engine.Reset()
	if s.journal != nil {
		if err := s.journal.Truncate(ctx); err != nil {
			log.Printf("journal truncate: %v", err)
		}
	}
	s.broadcast(push.EventGameState, snap)
	return snap
}

// State returns a snapshot plus whether a match summary awaits display.
func (s *Service) State() (scoring.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

func (s *Service) MatchSummary() (scoring.Summary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Summaries().Get()
}

func (s *Service) AcknowledgeMatchSummary(wipe bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Summaries().Acknowledge(wipe)
}

// record journals the last ledger entry of a mutating call. Best effort: a
// journal failure never fails or unwinds the scoring call.
func (s *Service) record(ctx context.Context, team scoring.Team, res scoring.Result) {
	if s.journal == nil {
		return
	}
	var data string
	if n := len(res.State.MatchHistory); n > 0 {
		if raw, err := json.Marshal(res.State.MatchHistory[n-1]); err == nil {
			data = string(raw)
		}
	}
	err := s.journal.Append(ctx, journal.Event{
		MatchID:  res.State.MatchID,
		Type:     string(res.Action),
		Team:     team.String(),
		DataJSON: data,
	})
	if err != nil {
		log.Printf("journal append: %v", err)
	}
}

func (s *Service) saveResult(ctx context.Context, res scoring.Result) {
	if s.journal == nil || res.Winner == nil {
		return
	}
	sum, _, err := s.engine.Summaries().Get()
	if err != nil {
		return
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		return
	}
	if err := s.journal.SaveResult(ctx, res.State.MatchID, res.Winner.Team.String(), string(raw)); err != nil {
		log.Printf("journal save result: %v", err)
	}
}

func (s *Service) broadcast(event string, data interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, data)
	}
}

type pointEvent struct {
	Team      scoring.Team     `json:"team"`
	Action    string           `json:"action"`
	GameState scoring.Snapshot `json:"gamestate"`
}

type matchWonEvent struct {
	Winner    *scoring.Winner  `json:"winner"`
	GameState scoring.Snapshot `json:"gamestate"`
}
