// internal/api/http/health.go
package http

import (
	"net/http"

	"github.com/padeltech/padelboard/internal/scoreboard"
	"github.com/padeltech/padelboard/internal/storage"
)

// HealthHandler reports liveness plus whether the board assets are present.
func HealthHandler(svc *scoreboard.Service, as storage.AssetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, _ := svc.State()
		assets := map[string]bool{}
		if as != nil {
			for _, key := range []string{storage.AssetBoardPage, storage.AssetLogo, storage.AssetBackground, storage.AssetChime} {
				assets[key] = as.Exists(key)
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"matchid":  snap.MatchID,
			"matchwon": snap.MatchWon,
			"assets":   assets,
		})
	}
}
