package sensor

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// frameZones is the VL53L5CX 4x4 zone count per frame.
const frameZones = 16

// Zone is one ranging cell of a sensor frame.
type Zone struct {
	Zone       int `json:"zone"`
	DistanceMM int `json:"distance_mm"`
	Status     int `json:"status"`
}

// scanFrames parses the bridge wire format from r: a "DATA_START" line,
// sixteen "distance,status" lines, then "DATA_END". Complete frames go to
// handle; malformed zone lines are skipped and reported via onError, which
// drops the frame.
func scanFrames(r io.Reader, handle func([]Zone), onError func()) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "DATA_START" {
			continue
		}
		zones := make([]Zone, 0, frameZones)
		for i := 0; i < frameZones; i++ {
			if !sc.Scan() {
				return sc.Err()
			}
			distance, status, ok := parseZoneLine(strings.TrimSpace(sc.Text()))
			if !ok {
				if onError != nil {
					onError()
				}
				continue
			}
			zones = append(zones, Zone{Zone: i, DistanceMM: distance, Status: status})
		}
		if !sc.Scan() {
			return sc.Err()
		}
		if strings.TrimSpace(sc.Text()) == "DATA_END" && len(zones) == frameZones {
			handle(zones)
		}
	}
	return sc.Err()
}

func parseZoneLine(line string) (distance, status int, ok bool) {
	left, right, found := strings.Cut(line, ",")
	if !found {
		return 0, 0, false
	}
	distance, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, false
	}
	status, err = strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, false
	}
	return distance, status, true
}

// readLoop keeps one Pico's named pipe open, reconnecting with a bounded
// number of attempts like the bridge expects.
func (d *Detector) readLoop(ctx context.Context, pico, port string) {
	const maxReconnect = 5
	attempts := 0

	log.Printf("[%s] starting reader for %s", pico, port)
	for ctx.Err() == nil {
		if _, err := os.Stat(port); err != nil {
			attempts++
			if attempts > maxReconnect {
				log.Printf("[%s] pipe unavailable after %d attempts, stopping", pico, maxReconnect)
				return
			}
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		f, err := os.Open(port)
		if err != nil {
			attempts++
			continue
		}
		d.setConnected(pico, true)
		log.Printf("[%s] connected to %s", pico, port)
		attempts = 0

		err = scanFrames(f, func(zones []Zone) {
			d.HandleFrame(pico, zones)
		}, func() {
			d.countError(pico)
		})
		f.Close()
		d.setConnected(pico, false)
		if err != nil {
			log.Printf("[%s] read: %v", pico, err)
		}

		attempts++
		if attempts > maxReconnect {
			log.Printf("[%s] max reconnection attempts reached, stopping", pico)
			return
		}
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return
		}
	}
}
