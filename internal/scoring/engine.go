package scoring

import (
	"errors"
	"time"
)

// ErrInvalidOperatingMode rejects SetOperatingMode values outside the enum.
var ErrInvalidOperatingMode = errors.New("invalid mode. Must be basic, competition, lock, or null")

// Outcome discriminates the result of a mutating engine call.
type Outcome int

const (
	// OutcomeApplied means the call changed state.
	OutcomeApplied Outcome = iota
	// OutcomeIgnored means no operating mode is selected: the call was
	// observed but state is unchanged. Deliberate no-op, not an error.
	OutcomeIgnored
	// OutcomeMatchCompleted means the match is already won; state is
	// unchanged and the result carries the existing winner.
	OutcomeMatchCompleted
)

// SideSwitchNotice is the one-shot payload reported when a court-side switch
// is due. Once carried in a result it is cleared from state.
type SideSwitchNotice struct {
	TotalGames int    `json:"totalgames"`
	GameScore  string `json:"gamescore"`
	SetScore   string `json:"setscore"`
}

// Result is the full payload a transport needs after a mutating call.
type Result struct {
	Outcome    Outcome
	Action     ActionKind
	State      Snapshot
	MatchWon   bool
	Winner     *Winner
	SideSwitch *SideSwitchNotice
}

// Engine is the authoritative scoring state machine. Every call is a
// synchronous, deterministic function of current state plus input; no call
// blocks or performs I/O. The engine has no internal locking: the host must
// serialize AddPoint/SubtractPoint/SetOperatingMode/Reset.
type Engine struct {
	state     *MatchState
	summaries *SummaryStore
	evaluator *SetMatchEvaluator
	switches  SideSwitchPolicy
	names     TeamNames
	clock     func() time.Time
}

type Option func(*Engine)

// WithClock substitutes the time source, mainly for tests.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.clock = fn }
}

func WithTeamNames(names TeamNames) Option {
	return func(e *Engine) { e.names = names }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		summaries: NewSummaryStore(),
		names:     DefaultTeamNames(),
		clock:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	e.evaluator = &SetMatchEvaluator{
		clock:     e.clock,
		names:     e.names,
		summaries: e.summaries,
	}
	e.state = NewMatchState(e.clock())
	return e
}

// AddPoint credits one raw point to team and applies every boundary the new
// total crosses: game, set, tie-break entry, match.
func (e *Engine) AddPoint(team Team) Result {
	st := e.state
	if st.OperatingMode == OpModeUnset {
		return Result{Outcome: OutcomeIgnored, Action: ActionPoint, State: st.Snapshot()}
	}
	if st.MatchWon {
		return e.completedResult()
	}

	before := st.line()
	action := ActionPoint
	gameJustWon := false

	st.Points[team]++
	lead := st.Points[team] - st.Points[team.Opponent()]
	st.refreshDisplay()

	switch st.Mode {
	case ModeNormal:
		if st.Points[team] >= 4 && lead >= 2 {
			st.Games[team]++
			st.resetPoints()
			e.evaluator.AfterGameWin(st, team)
			action = ActionGame
			gameJustWon = true
		}
	case ModeTieBreak:
		if st.Points[team] >= 7 && lead >= 2 {
			e.evaluator.WinTieBreak(st, team)
			action = ActionSet
		}
	case ModeSuperTieBreak:
		if st.Points[team] >= 10 && lead >= 2 {
			e.evaluator.WinSuperTieBreak(st, team)
			action = ActionSet
		}
	}

	// The evaluator already logged set and match entries; the terminal match
	// entry stays last, so the per-point entry is skipped once the match is
	// won.
	if !st.MatchWon {
		st.History.Append(HistoryEntry{
			Timestamp: e.clock(),
			Action:    action,
			Team:      team,
			Before:    before,
			After:     st.line(),
		})
	}
	st.LastUpdated = e.clock()

	if gameJustWon && !st.MatchWon && st.Mode == ModeNormal {
		e.switches.AfterGame(st)
	}

	res := Result{Outcome: OutcomeApplied, Action: action, MatchWon: st.MatchWon}
	if st.MatchWon && st.Winner != nil {
		w := *st.Winner
		res.Winner = &w
	}
	res.SideSwitch = e.consumeSwitch()
	res.State = st.Snapshot()
	return res
}

// SubtractPoint decrements the team's raw counter with a floor of zero. It
// never reverses a completed game or set boundary.
func (e *Engine) SubtractPoint(team Team) Result {
	st := e.state
	if st.OperatingMode == OpModeUnset {
		return Result{Outcome: OutcomeIgnored, Action: ActionPointSubtract, State: st.Snapshot()}
	}
	if st.MatchWon {
		return e.completedResult()
	}

	before := st.line()
	if st.Points[team] > 0 {
		st.Points[team]--
	}
	st.refreshDisplay()

	st.History.Append(HistoryEntry{
		Timestamp: e.clock(),
		Action:    ActionPointSubtract,
		Team:      team,
		Before:    before,
		After:     st.line(),
	})
	st.LastUpdated = e.clock()

	return Result{Outcome: OutcomeApplied, Action: ActionPointSubtract, State: st.Snapshot()}
}

// SetOperatingMode replaces the operating mode and clears the Basic one-shot
// flag. Selecting Basic immediately re-evaluates whether a start-of-set
// switch is due.
func (e *Engine) SetOperatingMode(mode OperatingMode) (Result, error) {
	if !mode.Valid() {
		return Result{}, ErrInvalidOperatingMode
	}
	st := e.state
	st.OperatingMode = mode
	st.InitialSwitchDone = false
	if mode == OpModeBasic {
		e.switches.AtSetStart(st)
	}
	st.LastUpdated = e.clock()

	res := Result{Outcome: OutcomeApplied}
	res.SideSwitch = e.consumeSwitch()
	res.State = st.Snapshot()
	return res, nil
}

// Reset replaces the match state wholesale and empties the summary slot. It
// always succeeds.
func (e *Engine) Reset() Snapshot {
	e.state = NewMatchState(e.clock())
	e.summaries.Wipe()
	return e.state.Snapshot()
}

// State returns a read-only snapshot plus whether an unacknowledged match
// summary is available.
func (e *Engine) State() (Snapshot, bool) {
	return e.state.Snapshot(), e.summaries.Available()
}

func (e *Engine) Summaries() *SummaryStore { return e.summaries }

// consumeSwitch reports a pending side switch exactly once. An immediate
// re-query without a new qualifying event reports none pending.
func (e *Engine) consumeSwitch() *SideSwitchNotice {
	st := e.state
	if !st.SwitchPending {
		return nil
	}
	st.SwitchPending = false
	return &SideSwitchNotice{
		TotalGames: st.GamesAtSwitch,
		GameScore:  st.gameScore(),
		SetScore:   st.setScore(),
	}
}

func (e *Engine) completedResult() Result {
	st := e.state
	res := Result{Outcome: OutcomeMatchCompleted, MatchWon: true, State: st.Snapshot()}
	if st.Winner != nil {
		w := *st.Winner
		res.Winner = &w
	}
	return res
}
