package grpc

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
	"github.com/andrescamacho/bizsim-go/internal/domain/workorder"
)

// SimulationClient talks to a running `bizsim serve`
type SimulationClient struct {
	conn *grpc.ClientConn
}

// NewSimulationClient connects to address (host:port). Extra dial options
// are appended, which tests use to dial a bufconn listener.
func NewSimulationClient(address string, opts ...grpc.DialOption) (*SimulationClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to simulation server: %w", err)
	}
	return &SimulationClient{conn: conn}, nil
}

func (c *SimulationClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *SimulationClient) invoke(ctx context.Context, method string, in map[string]interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDashboard fetches the dashboard; an empty businessID covers every business
func (c *SimulationClient) GetDashboard(ctx context.Context, businessID string) (simulation.Dashboard, error) {
	out, err := c.invoke(ctx, "GetDashboard", map[string]interface{}{"business_id": businessID})
	if err != nil {
		return simulation.Dashboard{}, fmt.Errorf("failed to get dashboard: %w", err)
	}
	var d simulation.Dashboard
	if err := fromStruct(out, &d); err != nil {
		return simulation.Dashboard{}, err
	}
	return d, nil
}

func (c *SimulationClient) ListWorkOrders(ctx context.Context, businessID, status string, includeHistory bool) ([]workorder.Snapshot, error) {
	out, err := c.invoke(ctx, "ListWorkOrders", map[string]interface{}{
		"business_id":     businessID,
		"status":          status,
		"include_history": includeHistory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	var resp struct {
		Orders []workorder.Snapshot `json:"orders"`
	}
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// SaveSnapshot asks the server to save its running game
func (c *SimulationClient) SaveSnapshot(ctx context.Context, slot string) (common.SnapshotInfo, error) {
	out, err := c.invoke(ctx, "SaveSnapshot", map[string]interface{}{"slot": slot})
	if err != nil {
		return common.SnapshotInfo{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	var info common.SnapshotInfo
	if err := fromStruct(out, &info); err != nil {
		return common.SnapshotInfo{}, err
	}
	return info, nil
}

// WatchEvents streams events to fn until ctx is done, the server ends the
// stream or fn returns an error
func (c *SimulationClient) WatchEvents(ctx context.Context, names []string, fn func(*structpb.Struct) error) error {
	list := make([]interface{}, len(names))
	for i, n := range names {
		list[i] = n
	}
	req, err := structpb.NewStruct(map[string]interface{}{"names": list})
	if err != nil {
		return err
	}

	desc := &grpc.StreamDesc{StreamName: "WatchEvents", ServerStreams: true}
	stream, err := c.conn.NewStream(ctx, desc, "/"+ServiceName+"/WatchEvents")
	if err != nil {
		return fmt.Errorf("failed to open event stream: %w", err)
	}
	if err := stream.SendMsg(req); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := fn(msg); err != nil {
			return err
		}
	}
}
