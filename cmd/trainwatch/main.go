package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/urban-transit-labs/trainwatch/config"
	"github.com/urban-transit-labs/trainwatch/gtfs"
	"github.com/urban-transit-labs/trainwatch/gtfsrt"
	"github.com/urban-transit-labs/trainwatch/internal"
	"github.com/urban-transit-labs/trainwatch/metrics"
	"github.com/urban-transit-labs/trainwatch/publisher"
	"github.com/urban-transit-labs/trainwatch/routes"
	"github.com/urban-transit-labs/trainwatch/scheduler"
	"github.com/urban-transit-labs/trainwatch/server"
	"github.com/urban-transit-labs/trainwatch/tracking"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml")
	tripUpdates := flag.String("tripUpdates", "", "GTFS-RT TripUpdates URL (overrides config)")
	staticURL := flag.String("static", "", "GTFS static zip URL or path (overrides config)")
	flag.Parse()

	internal.InitLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *tripUpdates != "" {
		cfg.GTFSRT.TripUpdatesURLs = []string{*tripUpdates}
	}
	if *staticURL != "" {
		cfg.GTFS.StaticURL = *staticURL
	}

	static := loadStatic(cfg.GTFS)
	log.Printf("static loaded: %d stations, %d routes", len(static.Stations), len(static.RouteNames))

	routeIx := routes.NewIndex()
	for routeID, pts := range static.RouteGeometries() {
		routeIx.Load(routeID, pts)
	}
	log.Printf("route geometry loaded for %d routes", len(routeIx.Routes()))

	collector := metrics.NewCollector()

	registry := tracking.NewRegistry()
	tracker := tracking.NewTracker(tracking.NewEstimator(routeIx), registry)
	refresher := tracking.NewRefresher(static, registry)

	clock := scheduler.NewClock()

	var pub *publisher.NATSPublisher
	if cfg.NATS.URL != "" {
		pub, err = publisher.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, collector)
		if err != nil {
			log.Fatalf("nats: %v", err)
		}
		defer pub.Close()
	}

	recompute := func() {
		start := time.Now()
		positions := tracker.ComputeAll(clock.Now())
		held := 0
		for _, p := range positions {
			if p.Held {
				held++
			}
		}
		collector.HeldTrains.Set(float64(held))
		collector.RecomputeObserve(time.Since(start))
		if pub != nil {
			pub.PublishPositions(positions)
		}
	}
	sched := scheduler.NewScheduler(
		time.Duration(cfg.Tracker.RecomputeMS)*time.Millisecond,
		time.Duration(cfg.Tracker.MinRecomputeMS)*time.Millisecond,
		recompute,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go clock.Run(ctx, time.Duration(cfg.Tracker.ClockTickMS)*time.Millisecond)
	go sched.Run(ctx)

	var lastFeedEpoch atomic.Int64
	go pollFeed(ctx, cfg.GTFSRT, refresher, clock, sched, collector, &lastFeedEpoch)

	if cfg.Metrics.Addr != "" {
		metricsSrv := collector.Serve(cfg.Metrics.Addr)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	srv := server.New(cfg.Server, tracker, routeIx, static, clock, sched, lastFeedEpoch.Load)
	srv.Start()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	} else {
		log.Printf("server shut down successfully")
	}
}

// loadStatic builds the static index, preferring the gob cache when
// configured and present.
func loadStatic(cfg config.GTFSConfig) *gtfs.Index {
	if cfg.CachePath != "" {
		if idx, err := gtfs.DeserializeIndexFromFile(cfg.CachePath); err == nil {
			log.Printf("static index loaded from cache %s", cfg.CachePath)
			return idx
		}
	}
	idx, err := gtfs.NewIndexFromConfig(cfg)
	if err != nil {
		log.Fatalf("gtfs static: %v", err)
	}
	if cfg.CachePath != "" {
		if err := gtfs.SerializeIndexToFile(idx, cfg.CachePath); err != nil {
			log.Printf("static cache write failed: %v", err)
		}
	}
	return idx
}

// pollFeed refreshes the trip registry on a fixed interval. A failed cycle
// leaves the previous registry untouched; the next interval simply tries
// again. Each successful refresh forces an immediate recompute.
func pollFeed(ctx context.Context, cfg config.GTFSRTConfig, refresher *tracking.Refresher, clock *scheduler.Clock, sched *scheduler.Scheduler, collector *metrics.Collector, lastFeedEpoch *atomic.Int64) {
	client := gtfsrt.NewClient(time.Duration(cfg.TimeoutMS) * time.Millisecond)

	refresh := func() {
		snap, err := client.FetchSnapshot(cfg.TripUpdatesURLs)
		if err != nil {
			collector.FeedErrors.Inc()
			log.Printf("feed refresh failed: %v", err)
			return
		}
		active := refresher.Apply(snap, clock.Now())
		collector.FeedRefreshes.Inc()
		collector.ActiveTrips.Set(float64(active))
		if snap.Timestamp > 0 {
			lastFeedEpoch.Store(snap.Timestamp)
			collector.FeedAge.Set(float64(clock.Now().Unix() - snap.Timestamp))
		}
		sched.Request()
	}

	refresh()
	ticker := time.NewTicker(time.Duration(cfg.ReadIntervalMS) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
