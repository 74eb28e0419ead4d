package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	ActiveTrips prometheus.Gauge
	HeldTrains  prometheus.Gauge
	FeedAge     prometheus.Gauge

	FeedRefreshes prometheus.Counter
	FeedErrors    prometheus.Counter

	Recomputes        prometheus.Counter
	RecomputeDuration prometheus.Histogram

	StreamPublished   prometheus.Counter
	StreamPublishErrs prometheus.Counter
	StreamConnected   prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ActiveTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trainwatch_active_trips",
			Help: "Number of trips currently in the registry.",
		}),
		HeldTrains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trainwatch_held_trains",
			Help: "Trains frozen at their last coordinate due to degenerate time bounds.",
		}),
		FeedAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trainwatch_feed_age_seconds",
			Help: "Age of the newest feed header timestamp at last refresh.",
		}),
		FeedRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainwatch_feed_refreshes_total",
			Help: "Total successful feed refresh cycles.",
		}),
		FeedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainwatch_feed_errors_total",
			Help: "Total refresh cycles where every endpoint failed.",
		}),
		Recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainwatch_recomputes_total",
			Help: "Total position recompute passes.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trainwatch_recompute_duration_seconds",
			Help:    "Duration of one full position recompute pass.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		}),
		StreamPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainwatch_stream_published_total",
			Help: "Total position messages published to the stream.",
		}),
		StreamPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trainwatch_stream_publish_errors_total",
			Help: "Total position stream publish errors.",
		}),
		StreamConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trainwatch_stream_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		c.ActiveTrips, c.HeldTrains, c.FeedAge,
		c.FeedRefreshes, c.FeedErrors,
		c.Recomputes, c.RecomputeDuration,
		c.StreamPublished, c.StreamPublishErrs, c.StreamConnected,
	)
	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}

// Publisher metrics hooks, satisfied for the position stream.

func (c *Collector) StreamPublishedInc()  { c.StreamPublished.Inc() }
func (c *Collector) StreamPublishErrInc() { c.StreamPublishErrs.Inc() }
func (c *Collector) StreamSetConnected(connected bool) {
	if connected {
		c.StreamConnected.Set(1)
	} else {
		c.StreamConnected.Set(0)
	}
}
func (c *Collector) RecomputeObserve(d time.Duration) {
	c.Recomputes.Inc()
	c.RecomputeDuration.Observe(d.Seconds())
}
