package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"consulthub/internal/catalog"
	"consulthub/pkg/models"
)

const ServiceName = "consulthub.Catalog"

type ListRecordsRequest struct {
	Kind    string `json:"kind"`
	Q       string `json:"q,omitempty"`
	Country string `json:"country,omitempty"`
	Sector  string `json:"sector,omitempty"`
	Sort    string `json:"sort,omitempty"`
	Limit   int32  `json:"limit,omitempty"`
	Offset  int32  `json:"offset,omitempty"`
}

type ListRecordsResponse struct {
	Items   []models.Record `json:"items"`
	Total   int32           `json:"total"`
	Matched int32           `json:"matched"`
	Limit   int32           `json:"limit"`
	Offset  int32           `json:"offset"`
	Stats   catalog.Stats   `json:"stats"`
}

type GetRecordRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type GetRecordResponse struct {
	Record models.Record `json:"record"`
}

type SummaryRequest struct {
	Kind    string `json:"kind"`
	Country string `json:"country,omitempty"`
	Sector  string `json:"sector,omitempty"`
	Locale  string `json:"locale,omitempty"`
}

type SummaryResponse struct {
	Stats     catalog.Stats    `json:"stats"`
	Countries []catalog.Option `json:"countries"`
	Sectors   []catalog.Option `json:"sectors"`
}

// CatalogServer is the read-only catalog API.
type CatalogServer interface {
	ListRecords(context.Context, *ListRecordsRequest) (*ListRecordsResponse, error)
	GetRecord(context.Context, *GetRecordRequest) (*GetRecordResponse, error)
	Summary(context.Context, *SummaryRequest) (*SummaryResponse, error)
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

// unary adapts a typed method to the grpc.MethodDesc handler shape.
func unary[Req any, Resp any](name string, call func(CatalogServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CatalogServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CatalogServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListRecords", CatalogServer.ListRecords),
		unary("GetRecord", CatalogServer.GetRecord),
		unary("Summary", CatalogServer.Summary),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "consulthub/catalog",
}

// CatalogClient calls the catalog service with the JSON codec.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

func (c *CatalogClient) ListRecords(ctx context.Context, in *ListRecordsRequest, opts ...grpc.CallOption) (*ListRecordsResponse, error) {
	out := new(ListRecordsResponse)
	if err := c.invoke(ctx, "ListRecords", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) GetRecord(ctx context.Context, in *GetRecordRequest, opts ...grpc.CallOption) (*GetRecordResponse, error) {
	out := new(GetRecordResponse)
	if err := c.invoke(ctx, "GetRecord", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) Summary(ctx context.Context, in *SummaryRequest, opts ...grpc.CallOption) (*SummaryResponse, error) {
	out := new(SummaryResponse)
	if err := c.invoke(ctx, "Summary", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
