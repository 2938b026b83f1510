package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ProbeService is the service name reported alongside the server-wide ("") status.
const ProbeService = "hostmon.Monitor"

// staleCycles is how many cycle periods may pass without a finished cycle before the
// health endpoint reports NOT_SERVING.
const staleCycles = 3

// listenProbe binds the health endpoint. An empty address disables it.
func listenProbe(addr string) (net.Listener, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen probe endpoint %s: %w", addr, err)
	}
	return ln, nil
}

// runProbeListener serves the health endpoint until ctx ends. A serve failure is logged
// and never stops the monitor.
func (a *Agent) runProbeListener(ctx context.Context) error {
	if a.probeLn == nil {
		a.logger.Debug("probe endpoint disabled")
		return nil
	}
	a.logger.Info(fmt.Sprintf("Health endpoint listening on %s", a.probeLn.Addr()))
	if err := a.serveProbe(ctx, a.probeLn); err != nil {
		a.logger.Error(fmt.Sprintf("Health endpoint failed, monitoring continues: %v", err))
	}
	return nil
}

// staleAfter is the age of the last cycle beyond which the monitor is reported stuck.
func (a *Agent) staleAfter() time.Duration {
	return staleCycles * (a.cfg.Interval + a.cfg.CPUWindow)
}

// refreshServing maps the health status onto both reported services.
func (a *Agent) refreshServing(hs *health.Server, now time.Time) {
	status := healthpb.HealthCheckResponse_SERVING
	if !a.health.Fresh(now, a.staleAfter()) {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", status)
	hs.SetServingStatus(ProbeService, status)
}

// serveProbe serves the standard gRPC health service on ln until ctx ends.
func (a *Agent) serveProbe(ctx context.Context, ln net.Listener) error {
	var opts []grpc.ServerOption
	tlsCfg, err := a.cfg.TLSConfig()
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("probe tls: %w", err)
	}
	if tlsCfg != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(tlsCfg)))
	}

	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	a.refreshServing(hs, time.Now())
	healthpb.RegisterHealthServer(srv, hs)

	period := a.cfg.Interval
	if period <= 0 {
		period = time.Second
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				hs.Shutdown()
				srv.GracefulStop()
				return
			case <-done:
				srv.Stop()
				return
			case now := <-ticker.C:
				a.refreshServing(hs, now)
			}
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("serve probe endpoint: %w", err)
	}
	return nil
}
