// Command dhcplite runs a minimal DHCPv4 server for one directly
// connected subnet. It takes no flags and consults no environment
// variables (spec.md §6); its only inputs are what it can discover
// about the host it runs on.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dlaa/dhcplite/internal/dhcp"
	"github.com/dlaa/dhcplite/internal/hostaddr"
	"github.com/dlaa/dhcplite/internal/lease"
	"github.com/dlaa/dhcplite/internal/logging"
	"github.com/dlaa/dhcplite/internal/metrics"
	"github.com/dlaa/dhcplite/internal/pool"
	"github.com/dlaa/dhcplite/pkg/dhcpv4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.Setup("info", os.Stdout)

	addr, mask, err := hostaddr.NetlinkProvider{}.HostAddress(context.Background())
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}

	hostname, err := os.Hostname()
	if err != nil {
		logger.Error("startup failed", "error", fmt.Errorf("reading hostname: %w", err))
		return 1
	}

	addrValue := dhcpv4.IPToUint32(addr)
	maskValue := dhcpv4.IPToUint32(net.IP(mask))
	rng, err := pool.NewRange(addrValue, maskValue)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}

	table := lease.NewTable(addrValue)
	allocator := pool.New(table, rng)
	m := metrics.New()

	processor := &dhcp.Processor{
		Table:     table,
		Allocator: allocator,
		Identity: dhcp.Identity{
			Addr:     addrValue,
			Mask:     maskValue,
			Hostname: hostname,
		},
		Logger: logger,
	}

	transport, err := dhcp.NewUDPTransport(addr)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}

	server := &dhcp.Server{
		Transport: transport,
		Processor: processor,
		Logger:    logger,
		Metrics:   m,
	}

	metricsSrv := startMetricsServer(m, logger)
	defer func() {
		if metricsSrv != nil {
			_ = metricsSrv.Close()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown requested, closing transport")
		_ = transport.Close()
	}()

	logger.Info("server starting", "address", addr.String(), "range_min", dhcpv4.Uint32ToIP(rng.Min).String(), "range_max", dhcpv4.Uint32ToIP(rng.Max).String())

	if err := server.Serve(); err != nil {
		logger.Error("server exited with error", "error", err)
		return 1
	}

	logger.Info("server stopped")
	return 0
}

// startMetricsServer exposes the ambient Prometheus metrics on the
// loopback interface only — this is observability infrastructure added
// beyond spec.md's external interfaces, not a configurable surface, so
// it carries no flags of its own (SPEC_FULL.md §11).
func startMetricsServer(m *metrics.Metrics, logger interface {
	Warn(msg string, args ...any)
}) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: "127.0.0.1:9991", Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()
	return srv
}
