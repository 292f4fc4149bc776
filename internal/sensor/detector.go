// Package sensor turns VL53L5CX range frames from the two court Picos into
// scoring events. Detection is baseline-relative: after calibration against
// an empty court, a large distance drop means the ball crossed the sensor
// plane, and how close it came decides which team the point goes to.
package sensor

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/padeltech/padelboard/internal/push"
	"github.com/padeltech/padelboard/internal/scoring"
)

// ScoreSink is where detected hits land; satisfied by scoreboard.Service.
type ScoreSink interface {
	AddPoint(ctx context.Context, team scoring.Team) scoring.Result
}

type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type Config struct {
	Pico1Port string
	Pico2Port string

	// DropThresholdMM is the fall from baseline that counts as a ball.
	DropThresholdMM int
	// VeryCloseMM: a final distance under this means the ball bounced on
	// this sensor's side, so the opposite team scored.
	VeryCloseMM int
	// Debounce is the minimum time between detections per sensor.
	Debounce time.Duration

	CalibrationSamples int
	SampleInterval     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Pico1Port:          "/tmp/pico1_serial",
		Pico2Port:          "/tmp/pico2_serial",
		DropThresholdMM:    500,
		VeryCloseMM:        300,
		Debounce:           time.Second,
		CalibrationSamples: 10,
		SampleInterval:     200 * time.Millisecond,
	}
}

// Validation mirrors what the board shows about sensor wiring.
type Validation struct {
	Validated      bool      `json:"validated"`
	Pico1Connected bool      `json:"pico1_connected"`
	Pico2Connected bool      `json:"pico2_connected"`
	Pico1Port      string    `json:"pico1_port"`
	Pico2Port      string    `json:"pico2_port"`
	Status         string    `json:"status"` // pending|valid|warning|error
	ErrorMessage   string    `json:"error_message,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type picoState struct {
	connected     bool
	lastFrame     []Zone
	frameCount    int
	errorCount    int
	lastDetection time.Time
	baseline      float64
	calibrated    bool
}

type Detector struct {
	cfg     Config
	mapping *Mapping
	sink    ScoreSink
	hub     Broadcaster
	clock   func() time.Time

	mu         sync.Mutex
	picos      map[string]*picoState
	validation Validation
}

func NewDetector(cfg Config, mapping *Mapping, sink ScoreSink, hub Broadcaster) *Detector {
	return &Detector{
		cfg:     cfg,
		mapping: mapping,
		sink:    sink,
		hub:     hub,
		clock:   time.Now,
		picos: map[string]*picoState{
			Pico1: {},
			Pico2: {},
		},
		validation: Validation{
			Pico1Port: cfg.Pico1Port,
			Pico2Port: cfg.Pico2Port,
			Status:    "pending",
		},
	}
}

// Run validates the pipes, starts both readers and schedules the initial
// auto-calibration. Returns immediately; readers stop with ctx.
func (d *Detector) Run(ctx context.Context) {
	go func() {
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return
		}
		v := d.Validate()
		if d.hub != nil {
			d.hub.Broadcast(push.EventSensorValidation, v)
		}
		if v.Status == "error" {
			return
		}

		go d.readLoop(ctx, Pico1, d.cfg.Pico1Port)
		go d.readLoop(ctx, Pico2, d.cfg.Pico2Port)

		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return
		}
		d.CalibrateAll()
	}()
}

// Validate probes both named pipes and records the result.
func (d *Detector) Validate() Validation {
	pico1OK := pipeExists(d.cfg.Pico1Port)
	pico2OK := pipeExists(d.cfg.Pico2Port)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.validation.Pico1Connected = pico1OK
	d.validation.Pico2Connected = pico2OK
	d.validation.Timestamp = d.clock()
	switch {
	case pico1OK && pico2OK:
		d.validation.Validated = true
		d.validation.Status = "valid"
		d.validation.ErrorMessage = ""
	case !pico1OK && !pico2OK:
		d.validation.Validated = false
		d.validation.Status = "error"
		d.validation.ErrorMessage = "no named pipes detected - start the uart bridge first"
	default:
		missing := Pico1
		if pico1OK {
			missing = Pico2
		}
		d.validation.Validated = false
		d.validation.Status = "warning"
		d.validation.ErrorMessage = fmt.Sprintf("%s pipe not found - partial operation", missing)
	}
	return d.validation
}

func (d *Detector) Validation() Validation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validation
}

func pipeExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// HandleFrame stores the frame and runs detection against the baseline.
func (d *Detector) HandleFrame(pico string, zones []Zone) {
	d.mu.Lock()
	st := d.picos[pico]
	if st == nil {
		d.mu.Unlock()
		return
	}
	st.lastFrame = zones
	st.frameCount++
	st.connected = true

	if !st.calibrated {
		d.mu.Unlock()
		return
	}
	baseline := st.baseline
	minDist := minDistance(zones)
	drop := baseline - float64(minDist)
	if drop <= float64(d.cfg.DropThresholdMM) {
		d.mu.Unlock()
		return
	}
	now := d.clock()
	if now.Sub(st.lastDetection) < d.cfg.Debounce {
		d.mu.Unlock()
		return
	}
	st.lastDetection = now
	d.mu.Unlock()

	team := d.mapping.TeamFor(pico)
	target := team
	if minDist < d.cfg.VeryCloseMM {
		// Ball bounced right in front of this sensor: the other side
		// scored the point.
		target = team.Opponent()
	}
	log.Printf("[%s] ball detected (%dmm, drop %.0fmm) -> point to %s", pico, minDist, drop, target)

	res := d.sink.AddPoint(context.Background(), target)
	if res.Outcome == scoring.OutcomeIgnored {
		log.Printf("[%s] detection ignored - no operating mode selected", pico)
	}
}

// Calibrate samples the empty-court baseline for one sensor.
func (d *Detector) Calibrate(pico string) (float64, error) {
	log.Printf("[%s] calibrating, keep the court clear", pico)

	var samples []int
	for i := 0; i < d.cfg.CalibrationSamples; i++ {
		if frame := d.lastFrame(pico); len(frame) == frameZones {
			samples = append(samples, minDistance(frame))
		}
		time.Sleep(d.cfg.SampleInterval)
	}

	if len(samples) < d.cfg.CalibrationSamples/2 {
		return 0, fmt.Errorf("%s: calibration failed, %d/%d valid samples", pico, len(samples), d.cfg.CalibrationSamples)
	}

	sum := 0
	for _, s := range samples {
		sum += s
	}
	baseline := float64(sum) / float64(len(samples))

	d.mu.Lock()
	st := d.picos[pico]
	st.baseline = baseline
	st.calibrated = true
	d.mu.Unlock()

	team := d.mapping.TeamFor(pico)
	log.Printf("[%s] calibration complete: baseline %.0fmm, team %s", pico, baseline, team)
	if d.hub != nil {
		d.hub.Broadcast(push.EventCalibrationDone, map[string]interface{}{
			"pico":      pico,
			"baseline":  baseline,
			"team":      team,
			"samples":   len(samples),
			"timestamp": d.clock(),
		})
	}
	return baseline, nil
}

// CalibrateAll calibrates both sensors, waiting briefly for frame data.
func (d *Detector) CalibrateAll() map[string]bool {
	for i := 0; i < 10; i++ {
		if len(d.lastFrame(Pico1)) == frameZones && len(d.lastFrame(Pico2)) == frameZones {
			break
		}
		time.Sleep(time.Second)
	}

	results := map[string]bool{}
	for _, pico := range []string{Pico1, Pico2} {
		_, err := d.Calibrate(pico)
		if err != nil {
			log.Printf("%v", err)
		}
		results[pico] = err == nil
	}
	return results
}

// PicoStatus is the per-sensor view served by the HTTP API.
type PicoStatus struct {
	Connected  bool         `json:"connected"`
	FrameCount int          `json:"frame_count"`
	ErrorCount int          `json:"error_count"`
	Team       scoring.Team `json:"team"`
	LastFrame  []Zone       `json:"last_frame"`
}

func (d *Detector) PicoData() map[string]PicoStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]PicoStatus, len(d.picos))
	for name, st := range d.picos {
		out[name] = PicoStatus{
			Connected:  st.connected,
			FrameCount: st.frameCount,
			ErrorCount: st.errorCount,
			Team:       d.mapping.TeamFor(name),
			LastFrame:  append([]Zone(nil), st.lastFrame...),
		}
	}
	return out
}

// CalibrationState is the per-sensor calibration view.
type CalibrationState struct {
	Calibrated bool         `json:"calibrated"`
	Baseline   *float64     `json:"baseline"`
	Team       scoring.Team `json:"team"`
}

func (d *Detector) CalibrationStatus() map[string]CalibrationState {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]CalibrationState, len(d.picos))
	for name, st := range d.picos {
		cs := CalibrationState{Calibrated: st.calibrated, Team: d.mapping.TeamFor(name)}
		if st.calibrated {
			b := st.baseline
			cs.Baseline = &b
		}
		out[name] = cs
	}
	return out
}

func (d *Detector) Mapping() *Mapping { return d.mapping }

func (d *Detector) lastFrame(pico string) []Zone {
	d.mu.Lock()
	defer d.mu.Unlock()
	if st := d.picos[pico]; st != nil {
		return st.lastFrame
	}
	return nil
}

func (d *Detector) setConnected(pico string, connected bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if st := d.picos[pico]; st != nil {
		st.connected = connected
	}
}

func (d *Detector) countError(pico string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if st := d.picos[pico]; st != nil {
		st.errorCount++
	}
}

func minDistance(zones []Zone) int {
	min := zones[0].DistanceMM
	for _, z := range zones[1:] {
		if z.DistanceMM < min {
			min = z.DistanceMM
		}
	}
	return min
}
