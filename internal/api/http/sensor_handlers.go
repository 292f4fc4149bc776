// internal/api/http/sensor_handlers.go
package http

import (
	"net/http"

	"github.com/padeltech/padelboard/internal/push"
	"github.com/padeltech/padelboard/internal/sensor"
)

// SensorStatusHandler reports per-Pico connection and frame counters.
func SensorStatusHandler(d *sensor.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"sensors": d.PicoData(),
			"mapping": d.Mapping().View(),
		})
	}
}

// SensorValidationHandler re-probes the bridge pipes on demand.
func SensorValidationHandler(d *sensor.Detector, hub *push.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := d.Validate()
		if hub != nil {
			hub.Broadcast(push.EventSensorValidation, v)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    v.Status != "error",
			"validation": v,
		})
	}
}

// CalibrateHandler recalibrates both sensors against an empty court.
func CalibrateHandler(d *sensor.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := d.CalibrateAll()
		ok := true
		for _, v := range results {
			ok = ok && v
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     ok,
			"results":     results,
			"calibration": d.CalibrationStatus(),
		})
	}
}

// CalibrationStatusHandler reports per-sensor baseline state.
func CalibrationStatusHandler(d *sensor.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"calibration": d.CalibrationStatus(),
		})
	}
}

// SensorMappingHandler returns the current Pico-to-team assignment.
func SensorMappingHandler(d *sensor.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"mapping": d.Mapping().View(),
		})
	}
}

// SwapMappingHandler flips which Pico scores for which team.
func SwapMappingHandler(d *sensor.Detector, hub *push.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := d.Mapping().Swap()
		if hub != nil {
			hub.Broadcast(push.EventMappingUpdated, view)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"mapping": view,
		})
	}
}
