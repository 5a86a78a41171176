package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownGrace = 5 * time.Second

// ListenAndServe runs the HTTP and gRPC listeners until ctx is cancelled
// or one of them fails. An empty address disables that listener. Both
// addresses are bound before anything is served.
func (s *Server) ListenAndServe(ctx context.Context, httpAddr, grpcAddr string) error {
	var hl, gl net.Listener
	if httpAddr != "" {
		l, err := net.Listen("tcp", httpAddr)
		if err != nil {
			return err
		}
		hl = l
	}
	if grpcAddr != "" {
		l, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			if hl != nil {
				_ = hl.Close()
			}
			return err
		}
		gl = l
	}

	g, ctx := errgroup.WithContext(ctx)

	if hl != nil {
		hs := &http.Server{
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			s.log.Info("http listening", zap.Stringer("addr", hl.Addr()))
			if err := hs.Serve(hl); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return hs.Shutdown(sctx)
		})
	}

	if gl != nil {
		gs := grpc.NewServer()
		s.RegisterGRPC(gs)
		g.Go(func() error {
			s.log.Info("grpc listening", zap.Stringer("addr", gl.Addr()))
			if err := gs.Serve(gl); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			gs.GracefulStop()
			return nil
		})
	}

	return g.Wait()
}
