package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/urban-transit-labs/trainwatch/gtfs"
	"github.com/urban-transit-labs/trainwatch/routes"
	"github.com/urban-transit-labs/trainwatch/tracking"
)

type healthResponse struct {
	Status        string `json:"status"`
	ActiveTrips   int    `json:"activeTrips"`
	LastFeedEpoch int64  `json:"lastFeedEpoch"`
	ClockEpoch    int64  `json:"clockEpoch"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "ok",
		ActiveTrips: s.tracker.Registry().Len(),
		ClockEpoch:  s.clock.Now().Unix(),
	}
	if s.lastFeedEpoch != nil {
		resp.LastFeedEpoch = s.lastFeedEpoch()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrains(w http.ResponseWriter, r *http.Request) {
	positions := s.tracker.Latest()
	if routeID := r.URL.Query().Get("route"); routeID != "" {
		filtered := positions[:0]
		for _, p := range positions {
			if p.RouteID == routeID {
				filtered = append(filtered, p)
			}
		}
		positions = filtered
	}
	writeJSON(w, http.StatusOK, positions)
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	for _, p := range s.tracker.Latest() {
		if p.TripID == tripID {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	// Fall back to an on-demand evaluation for trips registered after the
	// last recompute pass.
	if trip, ok := s.tracker.Registry().Get(tripID); ok {
		now := s.clock.Now()
		coord, err := s.tracker.Estimator().Position(trip, now)
		if err == nil {
			fraction, _ := s.tracker.Estimator().Fraction(trip, now)
			writeJSON(w, http.StatusOK, tracking.TrainPosition{
				TripID:      trip.TripID,
				RouteID:     trip.RouteID,
				DirectionID: trip.DirectionID,
				Coord:       coord,
				Fraction:    fraction,
				NextStopID:  trip.NextStopID,
				ComputedAt:  now,
			})
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown trip")
}

type routeSummary struct {
	ID        string  `json:"id"`
	ShortName string  `json:"shortName,omitempty"`
	LengthM   float64 `json:"lengthMeters"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	ids := s.routes.Routes()
	sort.Strings(ids)
	out := make([]routeSummary, 0, len(ids))
	for _, id := range ids {
		total, err := s.routes.TotalLength(id)
		if err != nil {
			continue
		}
		out = append(out, routeSummary{
			ID:        id,
			ShortName: s.static.RouteShortName(id),
			LengthM:   total,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRouteGeometry(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeID")
	pts, err := s.routes.Polyline(routeID)
	if err != nil {
		if errors.Is(err, routes.ErrUnknownRoute) {
			writeError(w, http.StatusNotFound, "unknown route")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	stations := make([]gtfs.Station, 0, len(s.static.Stations))
	for _, st := range s.static.Stations {
		stations = append(stations, st)
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].ID < stations[j].ID })
	writeJSON(w, http.StatusOK, stations)
}

func (s *Server) handleInteractionBegin(w http.ResponseWriter, r *http.Request) {
	s.sched.BeginInteraction()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInteractionEnd(w http.ResponseWriter, r *http.Request) {
	s.sched.EndInteraction()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
