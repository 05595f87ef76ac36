package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/bizsim-go/internal/adapters/feed"
	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/commands"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// SimulationServer serves dashboards, work order listings, on-demand saves
// and the live event stream of a running simulation
type SimulationServer struct {
	mediator common.Mediator
	feed     *feed.Feed
	logger   common.Logger
	server   *grpc.Server

	stopping chan struct{}
	stopOnce sync.Once
}

func NewSimulationServer(mediator common.Mediator, events *feed.Feed, logger common.Logger) *SimulationServer {
	s := &SimulationServer{
		mediator: mediator,
		feed:     events,
		logger:   shared.LoggerOrNop(logger),
		stopping: make(chan struct{}),
	}
	s.server = grpc.NewServer(grpc.UnaryInterceptor(s.loggingInterceptor))
	RegisterSimulationServiceServer(s.server, s)
	return s
}

// Serve blocks until the listener fails or Stop is called
func (s *SimulationServer) Serve(listener net.Listener) error {
	s.logger.Log(shared.LevelInfo, "[gRPC] Simulation service listening", map[string]interface{}{
		"address": listener.Addr().String(),
	})
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("gRPC server error: %w", err)
	}
	return nil
}

// Stop ends open event streams, then drains in-flight calls
func (s *SimulationServer) Stop() {
	s.stopOnce.Do(func() { close(s.stopping) })
	s.server.GracefulStop()
}

func (s *SimulationServer) GetDashboard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	resp, err := s.mediator.Send(s.withLogger(ctx), &queries.GetDashboardQuery{
		BusinessID: stringField(in, "business_id"),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(resp.(*queries.GetDashboardResponse).Dashboard)
}

func (s *SimulationServer) ListWorkOrders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	resp, err := s.mediator.Send(s.withLogger(ctx), &queries.ListWorkOrdersQuery{
		BusinessID:     stringField(in, "business_id"),
		Status:         stringField(in, "status"),
		IncludeHistory: boolField(in, "include_history"),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]interface{}{"orders": resp.(*queries.ListWorkOrdersResponse).Orders})
}

func (s *SimulationServer) SaveSnapshot(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	resp, err := s.mediator.Send(s.withLogger(ctx), &commands.SaveSnapshotCommand{
		Slot: stringField(in, "slot"),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(resp.(*commands.SnapshotResponse).Info)
}

func (s *SimulationServer) WatchEvents(in *structpb.Struct, stream SimulationService_WatchEventsServer) error {
	if s.feed == nil {
		return status.Error(codes.Unavailable, "event feed disabled")
	}
	sub := s.feed.Subscribe(stringListField(in, "names")...)
	defer sub.Close()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stopping:
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}
			msg, err := eventStruct(event)
			if err != nil {
				continue
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
		}
	}
}

func eventStruct(event feed.Event) (*structpb.Struct, error) {
	var payload interface{}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, err
	}
	return toStruct(map[string]interface{}{
		"seq":     event.Seq,
		"name":    event.Name,
		"clock":   event.Clock.String(),
		"payload": payload,
	})
}

func (s *SimulationServer) withLogger(ctx context.Context) context.Context {
	return common.WithLogger(ctx, s.logger)
}

func (s *SimulationServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		s.logger.Log(shared.LevelWarning, "[gRPC] Call failed", map[string]interface{}{
			"method": info.FullMethod,
			"error":  err.Error(),
		})
	}
	return resp, err
}

// toStatus maps domain errors onto gRPC codes
func toStatus(err error) error {
	var notFound *shared.NotFoundError
	var validation *shared.ValidationError
	switch {
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
