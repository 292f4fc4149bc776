// internal/api/http/score_handlers.go
package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/padeltech/padelboard/internal/scoreboard"
	"github.com/padeltech/padelboard/internal/scoring"
)

// gameStateView is a snapshot plus whether a finished match awaits display.
type gameStateView struct {
	scoring.Snapshot
	MatchStorageAvailable bool `json:"matchstorageavailable"`
}

type scoreResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Ignored    bool             `json:"ignored,omitempty"`
	GameState  scoring.Snapshot `json:"gamestate"`
	MatchWon   bool             `json:"matchwon"`
	Winner     *scoring.Winner  `json:"winner,omitempty"`
	SideSwitch *sideSwitchView  `json:"sideswitch,omitempty"`
}

type sideSwitchView struct {
	Required   bool   `json:"required"`
	TotalGames int    `json:"totalgames"`
	GameScore  string `json:"gamescore"`
	SetScore   string `json:"setscore"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeCompleted(w http.ResponseWriter, res scoring.Result) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success":  false,
		"error":    "Match is already completed",
		"winner":   res.Winner,
		"matchwon": true,
	})
}

func scoreResult(verb string, team scoring.Team, res scoring.Result) scoreResponse {
	out := scoreResponse{
		Success:   true,
		Message:   fmt.Sprintf("Point %s team %s", verb, team),
		GameState: res.State,
		MatchWon:  res.MatchWon,
		Winner:    res.Winner,
	}
	if res.Outcome == scoring.OutcomeIgnored {
		out.Ignored = true
		out.Message = "No operating mode selected - point not counted"
	}
	if res.SideSwitch != nil {
		out.SideSwitch = &sideSwitchView{
			Required:   true,
			TotalGames: res.SideSwitch.TotalGames,
			GameScore:  res.SideSwitch.GameScore,
			SetScore:   res.SideSwitch.SetScore,
		}
	}
	return out
}

func AddPointHandler(svc *scoreboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := scoring.ParseTeam(chi.URLParam(r, "team"))
		if err != nil {
			http.Error(w, "invalid team", http.StatusBadRequest)
			return
		}
		res := svc.AddPoint(r.Context(), team)
		if res.Outcome == scoring.OutcomeMatchCompleted {
			writeCompleted(w, res)
			return
		}
		writeJSON(w, http.StatusOK, scoreResult("added to", team, res))
	}
}

func SubtractPointHandler(svc *scoreboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := scoring.ParseTeam(chi.URLParam(r, "team"))
		if err != nil {
			http.Error(w, "invalid team", http.StatusBadRequest)
			return
		}
		res := svc.SubtractPoint(r.Context(), team)
		if res.Outcome == scoring.OutcomeMatchCompleted {
			writeCompleted(w, res)
			return
		}
		writeJSON(w, http.StatusOK, scoreResult("subtracted from", team, res))
	}
}

func GameStateHandler(svc *scoreboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, summaryReady := svc.State()
		writeJSON(w, http.StatusOK, gameStateView{Snapshot: snap, MatchStorageAvailable: summaryReady})
	}
}

type setGameModeReq struct {
	Mode *string `json:"mode"`
}

func SetGameModeHandler(svc *scoreboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setGameModeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		var raw string
		if req.Mode != nil {
			raw = *req.Mode
		}
		mode, err := scoring.ParseOperatingMode(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		res, err := svc.SetOperatingMode(r.Context(), mode)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		out := map[string]interface{}{
			"success":   true,
			"mode":      res.State.OperatingMode,
			"gamestate": res.State,
		}
		if res.SideSwitch != nil {
			out["sideswitch"] = &sideSwitchView{
				Required:   true,
				TotalGames: res.SideSwitch.TotalGames,
				GameScore:  res.SideSwitch.GameScore,
				SetScore:   res.SideSwitch.SetScore,
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func ResetMatchHandler(svc *scoreboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := svc.Reset(r.Context())
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"message":   "Match reset",
			"gamestate": snap,
		})
	}
}
