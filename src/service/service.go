package service

import (
	"encoding/json"
	"net/http"

	"github.com/mosaicnetworks/meshwire/src/inspect"
	"github.com/mosaicnetworks/meshwire/src/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Service exposes the counters of an Inspector over HTTP.
type Service struct {
	bindAddress string
	mux         *http.ServeMux
	stats       func() inspect.Summary
	logger      *logrus.Entry
}

// NewService registers /metrics, served from gatherer, and /stats, served
// from the stats callback.
func NewService(bindAddress string,
	gatherer prometheus.Gatherer,
	stats func() inspect.Summary,
	logger *logrus.Entry) *Service {

	service := Service{
		bindAddress: bindAddress,
		mux:         http.NewServeMux(),
		stats:       stats,
		logger:      logger,
	}

	service.registerHandlers(gatherer)

	return &service
}

func (s *Service) registerHandlers(gatherer prometheus.Gatherer) {
	s.logger.Debug("Registering meshwire API handlers")
	s.mux.Handle("/metrics", telemetry.Handler(gatherer))
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the router of the service, for embedding in another
// server or for tests.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving meshwire API")

	err := http.ListenAndServe(s.bindAddress, s.mux)
	if err != nil {
		s.logger.Error(err)
	}
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := s.stats()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.logger.WithError(err).Error("Encoding stats")
	}
}
