package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/ventureflow/internal/domain"
	"github.com/simaogato/ventureflow/internal/usecase/preset"
)

const bufSize = 1024 * 1024

func newBufConn(t *testing.T) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	logger := zap.NewNop()
	grpcServer := NewGRPCServer(NewServer(logger), logger)
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func record(company, year, hold, amount, multiple string) domain.InvestmentRecord {
	r := domain.NewEmptyRecord()
	r.Company = company
	r.Year = year
	r.Hold = hold
	r.Amount = amount
	r.Multiple = multiple
	return r
}

func TestDerive_RoundTrip(t *testing.T) {
	client := NewClient(newBufConn(t))

	charts, err := client.Derive(context.Background(), []domain.InvestmentRecord{
		record("Acme", "0", "2", "1000000", "3"),
		record("", "1", "1", "", ""),
	})

	require.NoError(t, err)
	require.NotNil(t, charts.Timeline)
	require.Len(t, charts.Timeline.Bars, 1)
	assert.Equal(t, "Acme", charts.Timeline.Bars[0].Label)
	assert.Equal(t, 4.0, charts.Timeline.AxisMax)

	require.NotNil(t, charts.Cashflow)
	values := make([]float64, 0, len(charts.Cashflow.Points))
	for _, p := range charts.Cashflow.Points {
		values = append(values, p.Value)
	}
	assert.Equal(t, []float64{-1000000, -1000000, 2000000, 2000000, 2000000}, values)
	assert.Equal(t, "Year 4", charts.Cashflow.Labels[4])
}

func TestDerive_TimelineOnly(t *testing.T) {
	client := NewClient(newBufConn(t))

	charts, err := client.Derive(context.Background(), []domain.InvestmentRecord{record("Acme", "2", "3", "", "")})

	require.NoError(t, err)
	assert.Equal(t, 7.0, charts.Timeline.AxisMax)
	assert.Nil(t, charts.Cashflow)
}

func TestDerive_Errors(t *testing.T) {
	conn := newBufConn(t)
	client := NewClient(conn)

	_, err := client.Derive(context.Background(), nil)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.Derive(context.Background(), []domain.InvestmentRecord{record("  ", "1", "1", "5", "2")})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err), "blank company")

	in, err := structpb.NewStruct(map[string]interface{}{"records": "not a list"})
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), DeriveMethod, in, out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	in, err = structpb.NewStruct(map[string]interface{}{"records": []interface{}{map[string]interface{}{"market": "CRYPTO"}}})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), DeriveMethod, in, out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDerive_CashflowOutOfRange(t *testing.T) {
	client := NewClient(newBufConn(t))

	tests := []struct {
		name   string
		record domain.InvestmentRecord
	}{
		{name: "horizon too large", record: record("Far", "5000", "1", "100", "2")},
		{name: "value overflow", record: record("Huge", "0", "1", "1e308", "10")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charts, err := client.Derive(context.Background(), []domain.InvestmentRecord{tt.record})

			require.NoError(t, err)
			require.NotNil(t, charts.Timeline)
			assert.Len(t, charts.Timeline.Bars, 1)
			assert.Nil(t, charts.Cashflow)
			assert.NotEmpty(t, charts.CashflowNotice)
		})
	}
}

func TestLoadPreset(t *testing.T) {
	client := NewClient(newBufConn(t))

	records, err := client.LoadPreset(context.Background(), preset.Passphrase)
	require.NoError(t, err)
	require.Len(t, records, len(preset.TowerPortfolio))
	assert.Equal(t, "Portable Breast Pump", records[0].Company)
	assert.Equal(t, domain.MarketWomensHealth, records[0].Market)

	_, err = client.LoadPreset(context.Background(), "tower2025")
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestRequestIDIsEchoed(t *testing.T) {
	conn := newBufConn(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "trace-42")

	var header metadata.MD
	_, err := NewClient(conn).LoadPreset(ctx, preset.Passphrase, grpc.Header(&header))

	require.NoError(t, err)
	assert.Equal(t, []string{"trace-42"}, header.Get(RequestIDHeader))
}

func TestHealthService(t *testing.T) {
	conn := newBufConn(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: domain.ErrInvalidField, want: codes.InvalidArgument},
		{err: domain.ErrHorizonTooLarge, want: codes.InvalidArgument},
		{err: domain.ErrValueOutOfRange, want: codes.InvalidArgument},
		{err: domain.ErrNoChartData, want: codes.FailedPrecondition},
		{err: domain.ErrIncorrectPassphrase, want: codes.PermissionDenied},
		{err: domain.ErrSessionNotFound, want: codes.NotFound},
		{err: errors.New("disk on fire"), want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(mapError(tt.err)))
		})
	}
	assert.NoError(t, mapError(nil))
}
