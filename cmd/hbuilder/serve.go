package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/hangar"
	"github.com/ec429/hbuilder/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, websocket and gRPC calculator service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&a.httpAddr, "http", "", "HTTP listen address (overrides server.http_addr)")
	cmd.Flags().StringVar(&a.grpcAddr, "grpc", "", "gRPC listen address (overrides server.grpc_addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	loader, cat, err := a.loadCatalog()
	if err != nil {
		return err
	}

	var store hangar.Store = hangar.NewMemoryStore()
	if a.cfg.HangarPath != "" {
		s, err := hangar.OpenSQLite(a.cfg.HangarPath, a.logger)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	srv := server.New(cat, server.Options{
		Calculator: bomber.NewCalculator(a.cfg.CalculatorOptions()...),
		Store:      store,
		Logger:     a.logger,
	})

	if a.cfg.Watch {
		w, err := catalog.NewWatcher(loader, 200*time.Millisecond, srv.SetCatalog)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		a.logger.Info("watching catalog", zap.String("dir", a.cfg.DataDir))
	}

	httpAddr, grpcAddr := a.cfg.HTTPAddr, a.cfg.GRPCAddr
	if a.httpAddr != "" {
		httpAddr = a.httpAddr
	}
	if a.grpcAddr != "" {
		grpcAddr = a.grpcAddr
	}
	return srv.ListenAndServe(ctx, httpAddr, grpcAddr)
}
