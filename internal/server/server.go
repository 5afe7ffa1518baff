package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/izzyreal/pagehist/internal/config"
	"github.com/izzyreal/pagehist/internal/store"
)

type stateStore struct {
	db       *store.Store
	cfg      config.File
	metrics  *serverMetrics
	validate *validator.Validate
	ingest   *rate.Limiter
}

func newStateStore(db *store.Store, cfg config.File) *stateStore {
	limit := rate.Inf
	if cfg.Server.IngestRatePerSec > 0 {
		limit = rate.Limit(cfg.Server.IngestRatePerSec)
	}
	burst := cfg.Server.IngestBurst
	if burst <= 0 {
		burst = 1
	}
	return &stateStore{
		db:       db,
		cfg:      cfg,
		metrics:  newServerMetrics(),
		validate: newRequestValidator(),
		ingest:   rate.NewLimiter(limit, burst),
	}
}

func Run(ctx context.Context, cfg config.File) error {
	db, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, p := range cfg.Projects {
		if _, err := db.UpsertProject(p.Name); err != nil {
			return fmt.Errorf("register project %q: %w", p.Name, err)
		}
	}

	s := newStateStore(db, cfg)
	router := buildRouter(s)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var grpcSrv *grpc.Server
	var grpcLis net.Listener
	if addr := strings.TrimSpace(cfg.Server.GRPCAddr); addr != "" {
		grpcLis, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
		grpcSrv = grpc.NewServer()
		registerHistoryGRPCService(grpcSrv, newHistoryGRPCServer(router))
	}

	stopMDNS := func() {}
	if cfg.Server.MDNS.Enabled {
		stopMDNS = startMDNSAdvertiser(cfg.Server.Addr, cfg.Server.MDNS.Instance)
	}
	defer stopMDNS()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("pagehist server started", "addr", cfg.Server.Addr, "db", cfg.Server.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})
	if grpcSrv != nil {
		g.Go(func() error {
			slog.Info("pagehist grpc started", "addr", grpcLis.Addr().String())
			if err := grpcSrv.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve grpc: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	err = g.Wait()
	slog.Info("pagehist server stopped")
	return err
}
