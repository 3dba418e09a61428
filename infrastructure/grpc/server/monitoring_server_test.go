package server

import (
	"arena-lab/domain"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type stubMonitor struct {
	running atomic.Bool
}

func (m *stubMonitor) Running() bool { return m.running.Load() }

func (m *stubMonitor) Stats() domain.ArenaStats {
	return domain.ArenaStats{Rooms: 2, Players: 5, Sessions: 4, Connections: 6}
}

func status(t *testing.T, s *MonitoringServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestMonitoringServer_MirrorsEngineState(t *testing.T) {
	req := require.New(t)
	monitor := &stubMonitor{}
	s := NewMonitoringServer(slog.Default(), monitor)

	// Given a stopped engine
	s.refresh()
	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, status(t, s, ServiceName))

	// When it starts running
	monitor.running.Store(true)
	s.refresh()

	// Then both the overall and the named service report serving
	req.Equal(healthpb.HealthCheckResponse_SERVING, status(t, s, ""))
	req.Equal(healthpb.HealthCheckResponse_SERVING, status(t, s, ServiceName))
}

func TestMonitoringServer_Watch_ShutsDownWithContext(t *testing.T) {
	req := require.New(t)
	monitor := &stubMonitor{}
	monitor.running.Store(true)
	s := NewMonitoringServer(slog.Default(), monitor)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()
	req.Eventually(func() bool {
		return status(t, s, ServiceName) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, status(t, s, ServiceName))
}

func TestMonitoringServer_HandleMonitoring(t *testing.T) {
	req := require.New(t)
	s := NewMonitoringServer(slog.Default(), &stubMonitor{})

	rec := httptest.NewRecorder()
	s.HandleMonitoring(rec, httptest.NewRequest("GET", "/api/monitoring", nil))

	req.Equal("application/json", rec.Header().Get("Content-Type"))
	var stats domain.ArenaStats
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &stats))
	req.Equal(domain.ArenaStats{Rooms: 2, Players: 5, Sessions: 4, Connections: 6}, stats)
}
