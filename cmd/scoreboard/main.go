package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/padeltech/padelboard/internal/api/http"
	"github.com/padeltech/padelboard/internal/config"
	"github.com/padeltech/padelboard/internal/db"
	"github.com/padeltech/padelboard/internal/journal"
	"github.com/padeltech/padelboard/internal/push"
	"github.com/padeltech/padelboard/internal/scoreboard"
	"github.com/padeltech/padelboard/internal/scoring"
	"github.com/padeltech/padelboard/internal/sensor"
	"github.com/padeltech/padelboard/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB / journal ---
	var jrnl scoreboard.Journal
	if cfg.EnableJournal {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		jrnl = journal.NewRepo(dbh)
	}

	// --- Core scoring ---
	hub := push.NewHub()
	engine := scoring.NewEngine(scoring.WithTeamNames(scoring.TeamNames{cfg.TeamNameBlack, cfg.TeamNameYellow}))
	svc := scoreboard.NewService(engine, jrnl, hub)

	// --- Sensors (optional) ---
	var det *sensor.Detector
	if cfg.EnableSensors {
		scfg := sensor.DefaultConfig()
		scfg.Pico1Port = cfg.Pico1Port
		scfg.Pico2Port = cfg.Pico2Port
		scfg.DropThresholdMM = cfg.DropThresholdMM
		scfg.VeryCloseMM = cfg.VeryCloseMM
		scfg.Debounce = cfg.Debounce()
		scfg.CalibrationSamples = cfg.CalibrationSamples
		det = sensor.NewDetector(scfg, sensor.NewMapping(), svc, hub)
		det.Run(context.Background())
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Websocket push stays outside the request timeout.
	r.Get("/ws", hub.Handler(func() []push.Message {
		snap, _ := svc.State()
		msgs := []push.Message{{Event: push.EventGameState, Data: snap}}
		if det != nil {
			msgs = append(msgs, push.Message{Event: push.EventSensorValidation, Data: det.Validation()})
		}
		return msgs
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(30 * time.Second))

		gr.Post("/addpoint/{team}", api.AddPointHandler(svc))
		gr.Post("/subtractpoint/{team}", api.SubtractPointHandler(svc))
		gr.Get("/gamestate", api.GameStateHandler(svc))
		gr.Post("/setgamemode", api.SetGameModeHandler(svc))
		gr.Post("/resetmatch", api.ResetMatchHandler(svc))

		gr.Get("/getmatchdata", api.GetMatchDataHandler(svc))
		gr.Post("/markmatchdisplayed", api.MarkMatchDisplayedHandler(svc))

		if det != nil {
			gr.Get("/sensorvalidation", api.SensorValidationHandler(det, hub))
			gr.Get("/picodata", api.SensorStatusHandler(det))
			gr.Get("/getsensormapping", api.SensorMappingHandler(det))
			gr.Post("/swappicos", api.SwapMappingHandler(det, hub))
			gr.Post("/calibrate", api.CalibrateHandler(det))
			gr.Get("/calibration_status", api.CalibrationStatusHandler(det))
		}

		as, err := storage.NewFSStore(cfg.AssetBasePath)
		if err != nil {
			log.Fatalf("asset store: %v", err)
		}
		api.MountAssets(gr, as)
		gr.Get("/health", api.HealthHandler(svc, as))
	})

	log.Printf("padelboard listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
