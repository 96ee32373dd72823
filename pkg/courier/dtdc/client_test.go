package dtdc_test

import (
	"context"
	"testing"

	"github.com/parceldesk/courier/pkg/courier"
	"github.com/parceldesk/courier/pkg/courier/dtdc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *dtdc.MockAPIClient) *dtdc.Client {
	logger := otelzap.New(zap.NewNop())
	return dtdc.NewWithAPIClient(
		dtdc.Config{CustomerCode: "PD123"},
		mockClient,
		logger,
		nil,
	)
}

func bookingRequest() *courier.BookingRequest {
	return &courier.BookingRequest{
		Consignee: courier.Address{
			Name:    "Ravi Kumar",
			Phone:   "9876543210",
			Pincode: "560001",
			Line:    "22 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
		},
		Shipper: courier.Address{
			Name:    "Parceldesk Warehouse",
			Phone:   "9812345678",
			Pincode: "110001",
			Line:    "Plot 7 Okhla Industrial Estate",
			City:    "New Delhi",
			State:   "Delhi",
		},
		Service:        courier.ServiceSurface,
		BillableWeight: 2.0,
		DeclaredValue:  900,
		ReferenceNo:    "PD-E5F6A7B8",
		Commodity:      "Electronics",
		Pieces:         1,
	}
}

func TestClient_BookShipment_Success(t *testing.T) {
	mockAPI := dtdc.NewMockAPIClient()
	mockAPI.OnCreateConsignment = func(ctx context.Context, req *dtdc.ConsignmentRequest) (*dtdc.ConsignmentResponse, error) {
		return &dtdc.ConsignmentResponse{
			Status: "OK",
			Data: []dtdc.ConsignmentResult{
				{
					Success:          true,
					ReferenceNumber:  "D123456789",
					ChargeableWeight: 2.5,
					Message:          "successfully created",
				},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	resp, err := client.BookShipment(context.Background(), bookingRequest())

	require.NoError(t, err)
	assert.Equal(t, "DTDC", resp.Courier)
	assert.Equal(t, "D123456789", resp.TrackingID)
	assert.Equal(t, 2.5, resp.ChargedWeight)
}

func TestClient_BookShipment_ItemFailureDespiteTopLevelOK(t *testing.T) {
	// A top-level "OK" with a per-item failure is still a failure.
	mockAPI := dtdc.NewMockAPIClient()
	mockAPI.OnCreateConsignment = func(ctx context.Context, req *dtdc.ConsignmentRequest) (*dtdc.ConsignmentResponse, error) {
		return &dtdc.ConsignmentResponse{
			Status: "OK",
			Data: []dtdc.ConsignmentResult{
				{Success: false, Message: "Pincode not serviceable"},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pincode not serviceable")
}

func TestClient_BookShipment_TopLevelFailure(t *testing.T) {
	mockAPI := dtdc.NewMockAPIClient()
	mockAPI.OnCreateConsignment = func(ctx context.Context, req *dtdc.ConsignmentRequest) (*dtdc.ConsignmentResponse, error) {
		return &dtdc.ConsignmentResponse{Status: "ERROR"}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR")
}

func TestClient_BookShipment_EmptyData(t *testing.T) {
	mockAPI := dtdc.NewMockAPIClient()
	mockAPI.OnCreateConsignment = func(ctx context.Context, req *dtdc.ConsignmentRequest) (*dtdc.ConsignmentResponse, error) {
		return &dtdc.ConsignmentResponse{Status: "OK"}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestClient_BookShipment_RequestMapping(t *testing.T) {
	var captured *dtdc.ConsignmentRequest
	mockAPI := dtdc.NewMockAPIClient()
	mockAPI.OnCreateConsignment = func(ctx context.Context, req *dtdc.ConsignmentRequest) (*dtdc.ConsignmentResponse, error) {
		captured = req
		return &dtdc.ConsignmentResponse{
			Status: "OK",
			Data:   []dtdc.ConsignmentResult{{Success: true, ReferenceNumber: "D1"}},
		}, nil
	}
	client := newTestClient(mockAPI)

	req := bookingRequest()
	req.COD = true
	req.CODAmount = 450
	req.Service = courier.ServiceAir

	_, err := client.BookShipment(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, captured)
	require.Len(t, captured.Consignments, 1)
	cons := captured.Consignments[0]
	assert.Equal(t, "PD123", cons.CustomerCode)
	assert.Equal(t, "B2C SMART EXPRESS", cons.ServiceTypeID)
	assert.Equal(t, "2", cons.Weight)
	assert.Equal(t, "cash", cons.CODCollectionMode)
	assert.Equal(t, "450", cons.CODAmount)
	assert.Equal(t, "560001", cons.DestinationDetails.Pincode)
}

func TestClient_BookShipment_SurfaceServiceType(t *testing.T) {
	var captured *dtdc.ConsignmentRequest
	mockAPI := dtdc.NewMockAPIClient()
	mockAPI.OnCreateConsignment = func(ctx context.Context, req *dtdc.ConsignmentRequest) (*dtdc.ConsignmentResponse, error) {
		captured = req
		return &dtdc.ConsignmentResponse{
			Status: "OK",
			Data:   []dtdc.ConsignmentResult{{Success: true, ReferenceNumber: "D1"}},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	require.NoError(t, err)
	assert.Equal(t, "B2C GROUND EXPRESS", captured.Consignments[0].ServiceTypeID)
	assert.Empty(t, captured.Consignments[0].CODCollectionMode)
}

func TestClient_BookShipment_APIError(t *testing.T) {
	mockAPI := dtdc.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	assert.Error(t, err)
}

func TestClient_CancelShipment_Success(t *testing.T) {
	mockAPI := dtdc.NewMockAPIClient()
	client := newTestClient(mockAPI)

	err := client.CancelShipment(context.Background(), &courier.CancelRequest{
		TrackingID: "D123456789",
	})

	assert.NoError(t, err)
}

func TestClient_CancelShipment_NotInSuccessList(t *testing.T) {
	mockAPI := dtdc.NewMockAPIClient()
	mockAPI.OnCancelConsignment = func(ctx context.Context, req *dtdc.CancelConsignmentRequest) (*dtdc.CancelConsignmentResponse, error) {
		return &dtdc.CancelConsignmentResponse{
			Status: "OK",
			Data: dtdc.CancelDetail{
				FailedAWBs: req.AWBNumbers,
				Message:    "consignment already dispatched",
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	err := client.CancelShipment(context.Background(), &courier.CancelRequest{
		TrackingID: "D123456789",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, courier.ErrCancellationRejected)
	assert.Contains(t, err.Error(), "already dispatched")
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(dtdc.NewMockAPIClient())
	assert.Equal(t, "DTDC", client.Name())
}

func TestClient_New_WithMock(t *testing.T) {
	logger := otelzap.New(zap.NewNop())
	client := dtdc.New(dtdc.Config{UseMock: true, CustomerCode: "PD123"}, logger, nil)

	resp, err := client.BookShipment(context.Background(), bookingRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, resp.TrackingID)
}
