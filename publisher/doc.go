// Package publisher streams computed train positions over NATS so map
// frontends and downstream consumers receive pushes instead of polling the
// HTTP API. The stream is optional; the service runs fine without a broker.
package publisher
