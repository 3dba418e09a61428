package server

import (
	"arena-lab/domain"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported to gRPC health probes.
const ServiceName = "arena.Arena"

// ArenaMonitor is what the ops surface needs to know about the engine.
type ArenaMonitor interface {
	Running() bool
	Stats() domain.ArenaStats
}

// MonitoringServer publishes the engine liveness over gRPC health checks
// and its counters as JSON.
type MonitoringServer struct {
	log     *slog.Logger
	monitor ArenaMonitor
	health  *health.Server
}

func NewMonitoringServer(log *slog.Logger, monitor ArenaMonitor) *MonitoringServer {
	return &MonitoringServer{log: log, monitor: monitor, health: health.NewServer()}
}

// Register exposes the health service on s.
func (s *MonitoringServer) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s.health)
}

// Watch mirrors the engine state into the health service until ctx ends.
func (s *MonitoringServer) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.refresh()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

func (s *MonitoringServer) refresh() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if s.monitor.Running() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// HandleMonitoring writes the current arena counters.
func (s *MonitoringServer) HandleMonitoring(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.monitor.Stats()); err != nil {
		s.log.Debug("Monitoring response failed", "error", err)
	}
}
