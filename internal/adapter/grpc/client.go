package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/ventureflow/internal/domain"
)

// Client calls the portfolio service and decodes its Struct documents
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Derive sends the records and returns the derived charts
func (c *Client) Derive(ctx context.Context, records []domain.InvestmentRecord, opts ...grpc.CallOption) (*domain.ChartSet, error) {
	list := make([]interface{}, 0, len(records))
	for _, record := range records {
		list = append(list, record.ToMap())
	}
	in, err := structpb.NewStruct(map[string]interface{}{"records": list})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DeriveMethod, in, out, opts...); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(out.AsMap())
	if err != nil {
		return nil, fmt.Errorf("failed to decode charts: %w", err)
	}
	var charts domain.ChartSet
	if err := json.Unmarshal(raw, &charts); err != nil {
		return nil, fmt.Errorf("failed to decode charts: %w", err)
	}
	return &charts, nil
}

// LoadPreset exchanges the passphrase for the preset rows
func (c *Client) LoadPreset(ctx context.Context, passphrase string, opts ...grpc.CallOption) ([]domain.InvestmentRecord, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"passphrase": passphrase})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LoadPresetMethod, in, out, opts...); err != nil {
		return nil, err
	}

	values := out.GetFields()["records"].GetListValue().GetValues()
	records := make([]domain.InvestmentRecord, 0, len(values))
	for _, v := range values {
		record, err := domain.RecordFromMap(v.GetStructValue().AsMap())
		if err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}
