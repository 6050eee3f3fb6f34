package client

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/glossary/internal/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name of the glossary service.
const ServiceName = "glossary.GlossaryService"

// GRPCClient implements GlossaryClient using the gRPC transport.
type GRPCClient struct {
	conn *grpc.ClientConn
}

// NewGRPCClient connects to the given gRPC address and returns a client.
// Extra dial options (e.g. a custom dialer in tests) are appended to the
// insecure transport default.
func NewGRPCClient(addr string, opts ...grpc.DialOption) (*GRPCClient, error) {
	defaults := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	conn, err := grpc.NewClient(addr, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{conn: conn}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// --- Reads ---

func (c *GRPCClient) GetAllTerms(ctx context.Context) ([]*model.Term, error) {
	var resp struct {
		Terms []*model.Term `json:"terms"`
	}
	if err := c.invoke(ctx, "GetAllTerms", struct{}{}, &resp); err != nil {
		return nil, err
	}
	if resp.Terms == nil {
		resp.Terms = []*model.Term{}
	}
	return resp.Terms, nil
}

func (c *GRPCClient) GetGraph(ctx context.Context) (*model.Graph, error) {
	var resp protoGraph
	if err := c.invoke(ctx, "GetGraph", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

func (c *GRPCClient) GetTermByName(ctx context.Context, name string) (*model.Term, error) {
	var term model.Term
	if err := c.invoke(ctx, "GetTermByName", termName{Name: name}, &term); err != nil {
		return nil, err
	}
	return &term, nil
}

// --- Writes ---

func (c *GRPCClient) AddTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error) {
	return c.write(ctx, "AddTerm", term)
}

func (c *GRPCClient) UpdateTerm(ctx context.Context, term *model.Term) (*model.WriteResult, error) {
	return c.write(ctx, "UpdateTerm", term)
}

func (c *GRPCClient) DeleteTerm(ctx context.Context, name string) (*model.WriteResult, error) {
	return c.write(ctx, "DeleteTerm", termName{Name: name})
}

// --- internal helpers ---

type termName struct {
	Name string `json:"name"`
}

func (c *GRPCClient) write(ctx context.Context, method string, req any) (*model.WriteResult, error) {
	var result model.WriteResult
	if err := c.invoke(ctx, method, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// invoke calls a unary method of the glossary service. NotFound status codes
// are translated to model.ErrNotFound so callers never see gRPC types.
func (c *GRPCClient) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s: %w", status.Convert(err).Message(), model.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	return fromStruct(out, resp)
}
