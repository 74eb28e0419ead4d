package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/urban-transit-labs/trainwatch/config"
	"github.com/urban-transit-labs/trainwatch/gtfs"
	"github.com/urban-transit-labs/trainwatch/routes"
	"github.com/urban-transit-labs/trainwatch/scheduler"
	"github.com/urban-transit-labs/trainwatch/tracking"
)

// Server serves the map-facing HTTP API.
type Server struct {
	cfg     config.ServerConfig
	tracker *tracking.Tracker
	routes  *routes.Index
	static  *gtfs.Index
	clock   *scheduler.Clock
	sched   *scheduler.Scheduler

	// lastFeedEpoch reports the newest feed header timestamp; wired by main.
	lastFeedEpoch func() int64

	httpServer *http.Server
}

// New assembles the API server. lastFeedEpoch may be nil.
func New(cfg config.ServerConfig, tracker *tracking.Tracker, routeIx *routes.Index, static *gtfs.Index, clock *scheduler.Clock, sched *scheduler.Scheduler, lastFeedEpoch func() int64) *Server {
	s := &Server{
		cfg:           cfg,
		tracker:       tracker,
		routes:        routeIx,
		static:        static,
		clock:         clock,
		sched:         sched,
		lastFeedEpoch: lastFeedEpoch,
	}

	r := chi.NewRouter()
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/trains", s.handleTrains)
	r.Get("/api/trains/{tripID}", s.handleTrain)
	r.Get("/api/routes", s.handleRoutes)
	r.Get("/api/routes/{routeID}/geometry", s.handleRouteGeometry)
	r.Get("/api/stations", s.handleStations)
	r.Post("/api/interaction/begin", s.handleInteractionBegin)
	r.Post("/api/interaction/end", s.handleInteractionEnd)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", s.httpServer.Addr)
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
