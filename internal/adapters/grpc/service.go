package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "bizsim.v1.SimulationService"

// Messages are structpb.Struct values carrying the JSON form of the
// application responses, so the service needs no generated code.
//
//	GetDashboard   {business_id}                         -> Dashboard
//	ListWorkOrders {business_id, status, include_history} -> {orders: [...]}
//	SaveSnapshot   {slot}                                 -> SnapshotInfo
//	WatchEvents    {names: [...]}                         -> stream {name, clock, event}
type SimulationServiceServer interface {
	GetDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListWorkOrders(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchEvents(*structpb.Struct, SimulationService_WatchEventsServer) error
}

// SimulationService_WatchEventsServer is the server side of the event stream
type SimulationService_WatchEventsServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchEventsServer struct {
	grpc.ServerStream
}

func (x *watchEventsServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterSimulationServiceServer registers srv on s
func RegisterSimulationServiceServer(s grpc.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&simulationServiceDesc, srv)
}

func unaryHandler(method string, call func(SimulationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SimulationServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(SimulationServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var simulationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetDashboard", SimulationServiceServer.GetDashboard),
		unaryHandler("ListWorkOrders", SimulationServiceServer.ListWorkOrders),
		unaryHandler("SaveSnapshot", SimulationServiceServer.SaveSnapshot),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName: "WatchEvents",
			Handler: func(srv interface{}, stream grpc.ServerStream) error {
				in := new(structpb.Struct)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(SimulationServiceServer).WatchEvents(in, &watchEventsServer{stream})
			},
			ServerStreams: true,
		},
	},
}
