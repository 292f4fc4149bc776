package scoring

// SideSwitchPolicy decides when players should change court ends. The timing
// depends on the operating mode:
//
//   - Basic: once at the start of every set after the first, when running
//     games are 0-0 and one or two sets are complete. Never at match start.
//   - Competition and Lock: after any game whose resulting games-in-set
//     total is odd (1, 3, 5, ...).
//
// No policy fires once the match is won. A due switch sets the pending flag
// on MatchState together with the games tally; the engine reports it to the
// caller exactly once and clears it.
type SideSwitchPolicy struct{}

// AfterGame applies the Competition/Lock rule after a completed Normal-mode
// game. Basic mode only switches at set starts, handled by AtSetStart.
func (SideSwitchPolicy) AfterGame(st *MatchState) bool {
	if st.MatchWon {
		return false
	}
	if st.OperatingMode == OpModeBasic {
		return false
	}
	total := st.Games[TeamBlack] + st.Games[TeamYellow]
	if total%2 == 1 {
		st.SwitchPending = true
		st.GamesAtSwitch = total
		return true
	}
	st.SwitchPending = false
	return false
}

// AtSetStart applies the Basic one-shot rule. Called after every set
// completion and when the operating mode is switched to Basic.
func (SideSwitchPolicy) AtSetStart(st *MatchState) {
	if st.MatchWon || st.OperatingMode != OpModeBasic {
		return
	}
	totalGames := st.Games[TeamBlack] + st.Games[TeamYellow]
	totalSets := st.Sets[TeamBlack] + st.Sets[TeamYellow]
	if totalSets == 0 && totalGames == 0 {
		// Match start, both pairs are already on their chosen ends.
		return
	}
	if totalGames == 0 && (totalSets == 1 || totalSets == 2) && !st.InitialSwitchDone {
		st.InitialSwitchDone = true
		st.SwitchPending = true
		st.GamesAtSwitch = 0
	}
}
