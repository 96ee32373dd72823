package dtdc

import (
	"context"
	"fmt"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateConsignment func(ctx context.Context, req *ConsignmentRequest) (*ConsignmentResponse, error)
	OnCancelConsignment func(ctx context.Context, req *CancelConsignmentRequest) (*CancelConsignmentResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreateConsignment returns a mock booking result.
func (m *MockAPIClient) CreateConsignment(ctx context.Context, req *ConsignmentRequest) (*ConsignmentResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCreateConsignment != nil {
		return m.OnCreateConsignment(ctx, req)
	}

	ref := fmt.Sprintf("D%d", 100000000+time.Now().UnixNano()%900000000)
	var customerRef string
	if len(req.Consignments) > 0 {
		customerRef = req.Consignments[0].CustomerReferenceNo
	}

	return &ConsignmentResponse{
		Status: "OK",
		Data: []ConsignmentResult{
			{
				Success:          true,
				ReferenceNumber:  ref,
				ChargeableWeight: 1.5,
				Message:          "successfully created",
				CustomerRefNo:    customerRef,
			},
		},
	}, nil
}

// CancelConsignment cancels a mock booking.
func (m *MockAPIClient) CancelConsignment(ctx context.Context, req *CancelConsignmentRequest) (*CancelConsignmentResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Description: "Simulated API error"}
	}

	if m.OnCancelConsignment != nil {
		return m.OnCancelConsignment(ctx, req)
	}

	return &CancelConsignmentResponse{
		Status: "OK",
		Data: CancelDetail{
			SuccessAWBs: req.AWBNumbers,
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
