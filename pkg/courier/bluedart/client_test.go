package bluedart_test

import (
	"context"
	"testing"

	"github.com/parceldesk/courier/pkg/courier"
	"github.com/parceldesk/courier/pkg/courier/bluedart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *bluedart.MockAPIClient) *bluedart.Client {
	logger := otelzap.New(zap.NewNop())
	return bluedart.NewWithAPIClient(
		bluedart.Config{LoginID: "test-login", LicenceKey: "test-key"},
		mockClient,
		logger,
		nil,
	)
}

func bookingRequest() *courier.BookingRequest {
	return &courier.BookingRequest{
		Consignee: courier.Address{
			Name:    "Asha Nair",
			Phone:   "9876543210",
			Pincode: "400001",
			Line:    "14 Marine Drive",
			City:    "Mumbai",
			State:   "Maharashtra",
		},
		Shipper: courier.Address{
			Name:    "Parceldesk Warehouse",
			Phone:   "9812345678",
			Pincode: "110001",
			Line:    "Plot 7 Okhla Industrial Estate Phase 3",
			City:    "New Delhi",
			State:   "Delhi",
		},
		Service:        courier.ServiceSurface,
		BillableWeight: 1.5,
		ActualWeight:   1.2,
		DeclaredValue:  1200,
		ReferenceNo:    "PD-A1B2C3D4",
		Commodity:      "Apparel",
		Pieces:         1,
	}
}

func TestClient_BookShipment_Success(t *testing.T) {
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		isError := false
		return &bluedart.WaybillResponse{
			GenerateWayBillResult: &bluedart.WaybillResult{
				IsError: &isError,
				AWBNo:   "12345678901",
				Status: []bluedart.StatusInfo{
					{StatusCode: "Valid", StatusInformation: "Successful"},
				},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	resp, err := client.BookShipment(context.Background(), bookingRequest())

	require.NoError(t, err)
	assert.Equal(t, "Blue Dart", resp.Courier)
	assert.Equal(t, "12345678901", resp.TrackingID)
	assert.Equal(t, "Successful", resp.RawStatus)
}

func TestClient_BookShipment_RemoteRejection(t *testing.T) {
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		isError := true
		return &bluedart.WaybillResponse{
			GenerateWayBillResult: &bluedart.WaybillResult{
				IsError: &isError,
				Status: []bluedart.StatusInfo{
					{StatusCode: "100", StatusInformation: "Invalid Pincode"},
				},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Pincode")
}

func TestClient_BookShipment_MissingIsErrorFlag(t *testing.T) {
	// A response without the IsError flag must never be treated as success,
	// even when an AWB is present.
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		return &bluedart.WaybillResponse{
			GenerateWayBillResult: &bluedart.WaybillResult{
				AWBNo: "12345678901",
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized waybill response")
}

func TestClient_BookShipment_EmptyAWB(t *testing.T) {
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		isError := false
		return &bluedart.WaybillResponse{
			GenerateWayBillResult: &bluedart.WaybillResult{
				IsError: &isError,
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no AWB")
}

func TestClient_BookShipment_CODOnPriorityBlockedLocally(t *testing.T) {
	called := false
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		called = true
		return nil, nil
	}
	client := newTestClient(mockAPI)

	req := bookingRequest()
	req.Service = courier.ServicePriority
	req.COD = true
	req.CODAmount = 500

	_, err := client.BookShipment(context.Background(), req)

	require.Error(t, err)
	assert.False(t, called, "remote API must not be called for a locally rejected order")
	assert.ErrorIs(t, err, courier.ErrCODNotAllowed)
	assert.True(t, courier.IsValidation(err))
}

func TestClient_BookShipment_CODOnPriorityAllowedForB2C(t *testing.T) {
	mockAPI := bluedart.NewMockAPIClient()
	logger := otelzap.New(zap.NewNop())
	client := bluedart.NewWithAPIClient(
		bluedart.Config{LoginID: "test-login", LicenceKey: "test-key", B2CAccount: true},
		mockAPI,
		logger,
		nil,
	)

	req := bookingRequest()
	req.Service = courier.ServicePriority
	req.COD = true
	req.CODAmount = 500

	resp, err := client.BookShipment(context.Background(), req)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.TrackingID)
}

func TestClient_BookShipment_CODSubProduct(t *testing.T) {
	var captured *bluedart.WaybillRequest
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		captured = req
		isError := false
		return &bluedart.WaybillResponse{
			GenerateWayBillResult: &bluedart.WaybillResult{IsError: &isError, AWBNo: "11111111111"},
		}, nil
	}
	client := newTestClient(mockAPI)

	req := bookingRequest()
	req.COD = true
	req.CODAmount = 750

	_, err := client.BookShipment(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "C", captured.Request.Services.SubProductCode)
	assert.Equal(t, 750.0, captured.Request.Services.CollectableAmount)
	assert.Equal(t, "E", captured.Request.Services.ProductCode)
}

func TestClient_BookShipment_PrepaidSubProduct(t *testing.T) {
	var captured *bluedart.WaybillRequest
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		captured = req
		isError := false
		return &bluedart.WaybillResponse{
			GenerateWayBillResult: &bluedart.WaybillResult{IsError: &isError, AWBNo: "11111111111"},
		}, nil
	}
	client := newTestClient(mockAPI)

	req := bookingRequest()
	req.Service = courier.ServiceAir

	_, err := client.BookShipment(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "P", captured.Request.Services.SubProductCode)
	assert.Equal(t, 0.0, captured.Request.Services.CollectableAmount)
	assert.Equal(t, "A", captured.Request.Services.ProductCode)
}

func TestClient_BookShipment_LongAddressSplit(t *testing.T) {
	var captured *bluedart.WaybillRequest
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		captured = req
		isError := false
		return &bluedart.WaybillResponse{
			GenerateWayBillResult: &bluedart.WaybillResult{IsError: &isError, AWBNo: "11111111111"},
		}, nil
	}
	client := newTestClient(mockAPI)

	req := bookingRequest()
	req.Consignee.Line = "Flat 1203 Tower B Lodha Splendora Ghodbunder Road Thane West"

	_, err := client.BookShipment(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Len(t, captured.Request.Consignee.ConsigneeAddress1, 30)
	assert.NotEmpty(t, captured.Request.Consignee.ConsigneeAddress2)
}

func TestClient_BookShipment_APIError(t *testing.T) {
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	assert.Error(t, err)
}

func TestClient_BookShipment_AuthErrorCode(t *testing.T) {
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnGenerateWaybill = func(ctx context.Context, req *bluedart.WaybillRequest) (*bluedart.WaybillResponse, error) {
		return nil, &bluedart.APIError{Code: "AUTH_HTTP_401", Description: "token rejected"}
	}
	client := newTestClient(mockAPI)

	_, err := client.BookShipment(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.True(t, courier.IsAuth(err))
}

func TestClient_CancelShipment_Success(t *testing.T) {
	mockAPI := bluedart.NewMockAPIClient()
	client := newTestClient(mockAPI)

	err := client.CancelShipment(context.Background(), &courier.CancelRequest{
		TrackingID: "12345678901",
	})

	assert.NoError(t, err)
}

func TestClient_CancelShipment_Rejected(t *testing.T) {
	mockAPI := bluedart.NewMockAPIClient()
	mockAPI.OnCancelWaybill = func(ctx context.Context, req *bluedart.CancelWaybillRequest) (*bluedart.CancelWaybillResponse, error) {
		isError := true
		return &bluedart.CancelWaybillResponse{
			CancelWaybillResult: &bluedart.CancelResult{
				IsError: &isError,
				Status: []bluedart.StatusInfo{
					{StatusCode: "200", StatusInformation: "Waybill already in transit"},
				},
			},
		}, nil
	}
	client := newTestClient(mockAPI)

	err := client.CancelShipment(context.Background(), &courier.CancelRequest{
		TrackingID: "12345678901",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, courier.ErrCancellationRejected)
	assert.Contains(t, err.Error(), "already in transit")
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(bluedart.NewMockAPIClient())
	assert.Equal(t, "Blue Dart", client.Name())
}

func TestClient_New_WithMock(t *testing.T) {
	logger := otelzap.New(zap.NewNop())
	client := bluedart.New(bluedart.Config{UseMock: true}, logger, nil)

	resp, err := client.BookShipment(context.Background(), bookingRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, resp.TrackingID)
}
