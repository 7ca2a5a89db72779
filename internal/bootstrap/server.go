package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/trainbooking/api"
	"github.com/Domenick1991/trainbooking/config"
	ticketsapi "github.com/Domenick1991/trainbooking/internal/api/tickets_service_api"
	"github.com/Domenick1991/trainbooking/internal/service/tickets"
	"github.com/Domenick1991/trainbooking/internal/service/trains"
	"github.com/Domenick1991/trainbooking/internal/service/users"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, userSvc users.UserUseCase, trainSvc trains.TrainUseCase, ticketSvc tickets.TicketUseCase) error {
	s := newServers(cfg, userSvc, trainSvc, ticketSvc)

	grpcLis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	httpLis, err := net.Listen("tcp", cfg.HTTP.Address)
	if err != nil {
		grpcLis.Close()
		return fmt.Errorf("listen HTTP %s: %w", cfg.HTTP.Address, err)
	}

	return s.serve(ctx, grpcLis, httpLis)
}

func newServers(cfg *config.Config, userSvc users.UserUseCase, trainSvc trains.TrainUseCase, ticketSvc tickets.TicketUseCase) *Servers {
	grpcSrv := grpc.NewServer()
	ticketsapi.RegisterTicketsServiceServer(grpcSrv, ticketsapi.NewServer(ticketSvc))

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           api.NewRouter(cfg.HTTP, userSvc, trainSvc, ticketSvc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: httpSrv,
	}
}

func (s *Servers) serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("gRPC listening on %s", grpcLis.Addr())
		if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Printf("HTTP listening on %s", httpLis.Addr())
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
