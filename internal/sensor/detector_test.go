package sensor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/padeltech/padelboard/internal/scoring"
)

type fakeSink struct {
	teams []scoring.Team
}

func (f *fakeSink) AddPoint(_ context.Context, team scoring.Team) scoring.Result {
	f.teams = append(f.teams, team)
	return scoring.Result{Outcome: scoring.OutcomeApplied}
}

type fakeHub struct {
	events []string
}

func (f *fakeHub) Broadcast(event string, _ interface{}) {
	f.events = append(f.events, event)
}

func frameAt(distance int) []Zone {
	zones := make([]Zone, frameZones)
	for i := range zones {
		zones[i] = Zone{Zone: i, DistanceMM: distance, Status: 5}
	}
	return zones
}

func newTestDetector(t *testing.T) (*Detector, *fakeSink, func(time.Duration)) {
	t.Helper()
	sink := &fakeSink{}
	cfg := DefaultConfig()
	cfg.CalibrationSamples = 2
	cfg.SampleInterval = 0
	d := NewDetector(cfg, NewMapping(), sink, &fakeHub{})
	now := time.Unix(1000, 0)
	d.clock = func() time.Time { return now }
	advance := func(delta time.Duration) { now = now.Add(delta) }
	return d, sink, advance
}

func calibrateAt(t *testing.T, d *Detector, pico string, distance int) {
	t.Helper()
	d.HandleFrame(pico, frameAt(distance))
	if _, err := d.Calibrate(pico); err != nil {
		t.Fatalf("calibrate %s: %v", pico, err)
	}
}

func TestScanFramesParsesCompleteFrame(t *testing.T) {
	var lines []string
	lines = append(lines, "DATA_START")
	for i := 0; i < frameZones; i++ {
		lines = append(lines, "1500,5")
	}
	lines = append(lines, "DATA_END")

	var got [][]Zone
	err := scanFrames(strings.NewReader(strings.Join(lines, "\n")), func(zones []Zone) {
		got = append(got, zones)
	}, nil)
	if err != nil {
		t.Fatalf("scanFrames: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("frames = %d, want 1", len(got))
	}
	if got[0][3].Zone != 3 || got[0][3].DistanceMM != 1500 || got[0][3].Status != 5 {
		t.Fatalf("zone 3 = %+v", got[0][3])
	}
}

func TestScanFramesDropsMalformedFrame(t *testing.T) {
	var lines []string
	lines = append(lines, "noise", "DATA_START")
	for i := 0; i < frameZones; i++ {
		if i == 7 {
			lines = append(lines, "garbage")
			continue
		}
		lines = append(lines, "1500,5")
	}
	lines = append(lines, "DATA_END")

	frames, errors := 0, 0
	err := scanFrames(strings.NewReader(strings.Join(lines, "\n")), func([]Zone) {
		frames++
	}, func() {
		errors++
	})
	if err != nil {
		t.Fatalf("scanFrames: %v", err)
	}
	if frames != 0 {
		t.Fatalf("frames = %d, want 0 for short frame", frames)
	}
	if errors != 1 {
		t.Fatalf("errors = %d, want 1", errors)
	}
}

func TestDetectionScoresOwnTeamOnDistantBounce(t *testing.T) {
	d, sink, _ := newTestDetector(t)
	calibrateAt(t, d, Pico1, 2000)

	// Drop well past the threshold but not in the very-close band.
	d.HandleFrame(Pico1, frameAt(1200))

	if len(sink.teams) != 1 {
		t.Fatalf("points = %d, want 1", len(sink.teams))
	}
	if sink.teams[0] != scoring.TeamBlack {
		t.Fatalf("team = %v, want black for PICO_1", sink.teams[0])
	}
}

func TestVeryCloseBounceScoresOpponent(t *testing.T) {
	d, sink, _ := newTestDetector(t)
	calibrateAt(t, d, Pico1, 2000)

	d.HandleFrame(Pico1, frameAt(150))

	if len(sink.teams) != 1 {
		t.Fatalf("points = %d, want 1", len(sink.teams))
	}
	if sink.teams[0] != scoring.TeamYellow {
		t.Fatalf("team = %v, want yellow for a very close bounce on black's side", sink.teams[0])
	}
}

func TestDebounceSuppressesRapidDetections(t *testing.T) {
	d, sink, advance := newTestDetector(t)
	calibrateAt(t, d, Pico1, 2000)

	d.HandleFrame(Pico1, frameAt(1200))
	advance(200 * time.Millisecond)
	d.HandleFrame(Pico1, frameAt(1200))
	if len(sink.teams) != 1 {
		t.Fatalf("points = %d, want 1 within debounce window", len(sink.teams))
	}

	advance(time.Second)
	d.HandleFrame(Pico1, frameAt(1200))
	if len(sink.teams) != 2 {
		t.Fatalf("points = %d, want 2 after debounce elapsed", len(sink.teams))
	}
}

func TestSmallDropBelowThresholdIgnored(t *testing.T) {
	d, sink, _ := newTestDetector(t)
	calibrateAt(t, d, Pico1, 2000)

	d.HandleFrame(Pico1, frameAt(1600))
	if len(sink.teams) != 0 {
		t.Fatalf("points = %d, want 0 for a 400mm drop", len(sink.teams))
	}
}

func TestUncalibratedSensorNeverScores(t *testing.T) {
	d, sink, _ := newTestDetector(t)
	d.HandleFrame(Pico1, frameAt(100))
	if len(sink.teams) != 0 {
		t.Fatalf("points = %d, want 0 before calibration", len(sink.teams))
	}
}

func TestCalibrateAveragesMinimumDistances(t *testing.T) {
	sink := &fakeSink{}
	hub := &fakeHub{}
	cfg := DefaultConfig()
	cfg.CalibrationSamples = 2
	cfg.SampleInterval = 0
	d := NewDetector(cfg, NewMapping(), sink, hub)

	d.HandleFrame(Pico2, frameAt(1800))
	baseline, err := d.Calibrate(Pico2)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if baseline != 1800 {
		t.Fatalf("baseline = %.0f, want 1800", baseline)
	}
	status := d.CalibrationStatus()[Pico2]
	if !status.Calibrated || status.Baseline == nil || *status.Baseline != 1800 {
		t.Fatalf("calibration status = %+v", status)
	}
	found := false
	for _, e := range hub.events {
		if e == "calibration_complete" {
			found = true
		}
	}
	if !found {
		t.Fatalf("events = %v, want calibration_complete", hub.events)
	}
}

func TestCalibrateFailsWithoutFrames(t *testing.T) {
	d, _, _ := newTestDetector(t)
	if _, err := d.Calibrate(Pico1); err == nil {
		t.Fatal("expected calibration error without frame data")
	}
}

func TestMappingSwapRedirectsDetections(t *testing.T) {
	d, sink, advance := newTestDetector(t)
	calibrateAt(t, d, Pico1, 2000)

	d.HandleFrame(Pico1, frameAt(1200))
	advance(2 * time.Second)

	d.Mapping().Swap()
	d.HandleFrame(Pico1, frameAt(1200))

	if len(sink.teams) != 2 {
		t.Fatalf("points = %d, want 2", len(sink.teams))
	}
	if sink.teams[0] != scoring.TeamBlack || sink.teams[1] != scoring.TeamYellow {
		t.Fatalf("teams = %v, want [black yellow]", sink.teams)
	}
}

func TestValidateReportsMissingPipes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pico1Port = t.TempDir() + "/missing1"
	cfg.Pico2Port = t.TempDir() + "/missing2"
	d := NewDetector(cfg, NewMapping(), &fakeSink{}, nil)

	v := d.Validate()
	if v.Status != "error" || v.Validated {
		t.Fatalf("validation = %+v, want error status", v)
	}
}
