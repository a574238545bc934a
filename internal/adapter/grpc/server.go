package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/ventureflow/internal/domain"
	"github.com/simaogato/ventureflow/internal/usecase/portfolio"
)

// Server implements PortfolioServiceServer
// Both calls are stateless: sessions belong to the HTTP surface.
type Server struct {
	Logger *zap.Logger
}

// NewServer creates a new gRPC server instance
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Logger: logger}
}

// NewGRPCServer builds a grpc.Server with the interceptor chain, the
// portfolio service, the health service and reflection registered
func NewGRPCServer(srv *Server, logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(logger),
		RequestIDInterceptor(),
		LoggingInterceptor(logger),
	))
	grpcServer := grpc.NewServer(opts...)

	RegisterPortfolioServiceServer(grpcServer, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	return grpcServer
}

// Derive handles the Derive RPC
func (s *Server) Derive(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	records, err := recordsFromStruct(req)
	if err != nil {
		return nil, mapError(err)
	}

	charts, err := portfolio.DeriveCharts(records)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := toStruct(charts)
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

// LoadPreset handles the LoadPreset RPC
func (s *Server) LoadPreset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	passphrase := req.GetFields()["passphrase"].GetStringValue()

	records, err := portfolio.PresetRecords(passphrase)
	if err != nil {
		return nil, mapError(err)
	}

	list := make([]interface{}, 0, len(records))
	for _, record := range records {
		list = append(list, record.ToMap())
	}
	resp, err := structpb.NewStruct(map[string]interface{}{"records": list})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func recordsFromStruct(req *structpb.Struct) ([]domain.InvestmentRecord, error) {
	raw, ok := req.GetFields()["records"]
	if !ok {
		return nil, nil
	}
	list := raw.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: records must be a list", domain.ErrInvalidField)
	}

	records := make([]domain.InvestmentRecord, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		m := v.GetStructValue()
		if m == nil {
			return nil, fmt.Errorf("%w: records[%d] must be an object", domain.ErrInvalidField, i)
		}
		record, err := domain.RecordFromMap(m.AsMap())
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// toStruct converts a JSON-tagged value into a Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return structpb.NewStruct(m)
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidField),
		errors.Is(err, domain.ErrHorizonTooLarge),
		errors.Is(err, domain.ErrValueOutOfRange):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrNoChartData):
		return status.Errorf(codes.FailedPrecondition, "%s", err.Error())
	case errors.Is(err, domain.ErrIncorrectPassphrase):
		return status.Errorf(codes.PermissionDenied, "%s", err.Error())
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
