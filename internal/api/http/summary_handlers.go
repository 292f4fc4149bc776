// internal/api/http/summary_handlers.go
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/padeltech/padelboard/internal/scoreboard"
	"github.com/padeltech/padelboard/internal/scoring"
)

// GetMatchDataHandler serves the one-slot completed match summary.
func GetMatchDataHandler(svc *scoreboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, displayed, err := svc.MatchSummary()
		if err != nil {
			if errors.Is(err, scoring.ErrNoSummary) {
				writeJSON(w, http.StatusNotFound, map[string]interface{}{
					"success": false,
					"error":   err.Error(),
				})
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"matchdata": sum,
			"displayed": displayed,
		})
	}
}

type markDisplayedReq struct {
	WipeImmediately *bool `json:"wipeimmediately"`
}

// MarkMatchDisplayedHandler acknowledges the summary was shown. By default
// the slot is wiped right away so the next match starts clean.
func MarkMatchDisplayedHandler(svc *scoreboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wipe := true
		var req markDisplayedReq
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.WipeImmediately != nil {
			wipe = *req.WipeImmediately
		}
		if err := svc.AcknowledgeMatchSummary(wipe); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		msg := "Match data marked as displayed"
		if wipe {
			msg = "Match data marked as displayed and wiped"
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": msg,
			"wiped":   wipe,
		})
	}
}
