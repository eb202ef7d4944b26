// Package api serves a read-only JSON view of the session alongside
// Prometheus metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/weatherapp/internal/models"
)

// Session is the part of the program state the server reads.
type Session interface {
	CurrentLocation() string
	CurrentWeather() *models.HourlyEntry
	HourlyEntries() []models.HourlyEntry
	DailyEntries() []models.DailyEntry
	Units() models.UnitSystem
	Favorites() []string
	History() []string
}

// SaveLog reports when the session was last persisted. The zero time means
// never.
type SaveLog interface {
	LastSaved() (time.Time, error)
}

type Server struct {
	session Session
	saves   SaveLog
	addr    string
}

// NewServer serves session on addr. saves may be nil.
func NewServer(session Session, saves SaveLog, addr string) *Server {
	return &Server{session: session, saves: saves, addr: addr}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/current", s.handleAPICurrent)
	mux.HandleFunc("/api/forecast", s.handleAPIForecast)
	mux.HandleFunc("/api/favorites", s.handleAPIFavorites)
	mux.HandleFunc("/api/history", s.handleAPIHistory)
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
