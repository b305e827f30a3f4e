package grpc

import (
	"net"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	healthsvc "google.golang.org/grpc/health"
	health "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "community"

type Server struct {
	srv    *grpc.Server
	health *healthsvc.Server
}

func NewGrpc() *Server {
	server := &Server{
		srv:    grpc.NewServer(),
		health: healthsvc.NewServer(),
	}

	health.RegisterHealthServer(server.srv, server.health)
	reflection.Register(server.srv)

	server.health.SetServingStatus(ServiceName, health.HealthCheckResponse_NOT_SERVING)

	return server
}

// MarkServing flips the health status once the store is reachable.
func (v *Server) MarkServing() {
	status := health.HealthCheckResponse_SERVING
	if database.C == nil {
		status = health.HealthCheckResponse_NOT_SERVING
	} else if db, err := database.C.DB(); err != nil || db.Ping() != nil {
		status = health.HealthCheckResponse_NOT_SERVING
	}
	v.health.SetServingStatus(ServiceName, status)
	v.health.SetServingStatus("", status)
}

func (v *Server) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	log.Info().Str("bind", listener.Addr().String()).Msg("Grpc server is listening...")
	return v.srv.Serve(listener)
}

func (v *Server) Shutdown() {
	v.health.Shutdown()
	v.srv.GracefulStop()
}
