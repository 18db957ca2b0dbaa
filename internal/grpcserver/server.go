package grpcserver

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"consulthub/internal/catalog"
	"consulthub/pkg/models"
)

type Server struct {
	Source        catalog.Source
	DefaultLocale models.Locale
}

func NewServer(src catalog.Source, locale models.Locale) *Server {
	return &Server{Source: src, DefaultLocale: locale}
}

func (s *Server) index(kind string) (*catalog.Index, error) {
	k, ok := models.ParseKind(kind)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "kind must be project or investment")
	}
	ix := s.Source.Collection(k)
	if ix == nil {
		return nil, status.Error(codes.Unavailable, "catalog not loaded")
	}
	return ix, nil
}

func (s *Server) ListRecords(ctx context.Context, req *ListRecordsRequest) (*ListRecordsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	ix, err := s.index(req.Kind)
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 || req.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit and offset must be >= 0")
	}

	res := ix.Search(catalog.Query{
		Text:          req.Q,
		Country:       req.Country,
		Sector:        req.Sector,
		Sort:          catalog.ParseSortMode(req.Sort),
		MatchLocation: ix.Kind() == models.KindInvestment,
	})

	items := res.Items
	if int(req.Offset) >= len(items) {
		items = items[:0]
	} else {
		items = items[req.Offset:]
	}
	if req.Limit > 0 && int(req.Limit) < len(items) {
		items = items[:req.Limit]
	}

	return &ListRecordsResponse{
		Items:   items,
		Total:   int32(ix.Len()),
		Matched: int32(len(res.Items)),
		Limit:   req.Limit,
		Offset:  req.Offset,
		Stats:   res.Stats,
	}, nil
}

func (s *Server) GetRecord(ctx context.Context, req *GetRecordRequest) (*GetRecordResponse, error) {
	if req == nil || strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	ix, err := s.index(req.Kind)
	if err != nil {
		return nil, err
	}
	r, ok := ix.Get(strings.TrimSpace(req.ID))
	if !ok {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return &GetRecordResponse{Record: r}, nil
}

func (s *Server) Summary(ctx context.Context, req *SummaryRequest) (*SummaryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	ix, err := s.index(req.Kind)
	if err != nil {
		return nil, err
	}
	l := models.ParseLocale(req.Locale, s.DefaultLocale)
	res := ix.Search(catalog.Query{Country: req.Country, Sector: req.Sector})
	lk := ix.Lookups()
	return &SummaryResponse{
		Stats:     res.Stats,
		Countries: lk.Countries.Options(l),
		Sectors:   lk.Sectors.Options(l),
	}, nil
}

// logUnary logs failed calls; successful ones are too chatty for info level.
func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		zap.L().Warn("grpc call failed", zap.String("method", info.FullMethod), zap.Error(err))
	}
	return resp, err
}

// New builds a gRPC server exposing the catalog plus the standard health
// service. The returned health server lets callers flip serving status on
// shutdown.
func New(src catalog.Source, locale models.Locale, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logUnary)}, opts...)
	gs := grpc.NewServer(opts...)
	RegisterCatalogServer(gs, NewServer(src, locale))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return gs, hs
}
