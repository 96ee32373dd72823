package bluedart

import (
	"context"
	"fmt"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGenerateWaybill func(ctx context.Context, req *WaybillRequest) (*WaybillResponse, error)
	OnCancelWaybill   func(ctx context.Context, req *CancelWaybillRequest) (*CancelWaybillResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GenerateWaybill returns a mock booking result.
func (m *MockAPIClient) GenerateWaybill(ctx context.Context, req *WaybillRequest) (*WaybillResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnGenerateWaybill != nil {
		return m.OnGenerateWaybill(ctx, req)
	}

	isError := false
	awb := fmt.Sprintf("%d", 10000000000+time.Now().UnixNano()%90000000000)

	return &WaybillResponse{
		GenerateWayBillResult: &WaybillResult{
			IsError:         &isError,
			AWBNo:           awb,
			DestinationArea: "BOM",
			Status: []StatusInfo{
				{StatusCode: "Valid", StatusInformation: "Successful"},
			},
		},
	}, nil
}

// CancelWaybill cancels a mock booking.
func (m *MockAPIClient) CancelWaybill(ctx context.Context, req *CancelWaybillRequest) (*CancelWaybillResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCancelWaybill != nil {
		return m.OnCancelWaybill(ctx, req)
	}

	isError := false
	return &CancelWaybillResponse{
		CancelWaybillResult: &CancelResult{
			IsError: &isError,
			Status: []StatusInfo{
				{StatusCode: "Valid", StatusInformation: "Waybill cancelled"},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
