package fulfillment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parceldesk/courier/internal/fulfillment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func TestHTTPNotifier_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := fulfillment.NewHTTPNotifier(srv.URL, otelzap.New(zap.NewNop()))

	err := n.NotifyFulfillment(context.Background(), "sh-42")

	require.NoError(t, err)
	assert.Equal(t, "/api/integrations/shopify/fulfill", gotPath)
	assert.Equal(t, map[string]string{"shipmentId": "sh-42"}, gotBody)
}

func TestHTTPNotifier_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "order already fulfilled", http.StatusConflict)
	}))
	defer srv.Close()

	n := fulfillment.NewHTTPNotifier(srv.URL, otelzap.New(zap.NewNop()))

	err := n.NotifyFulfillment(context.Background(), "sh-42")

	require.Error(t, err)
	var serr *fulfillment.SyncError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "sh-42", serr.ShipmentID)
	assert.Equal(t, http.StatusConflict, serr.StatusCode)
	assert.Contains(t, serr.Message, "already fulfilled")
}

func TestHTTPNotifier_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable on purpose

	n := fulfillment.NewHTTPNotifier(srv.URL, otelzap.New(zap.NewNop()))

	err := n.NotifyFulfillment(context.Background(), "sh-42")

	require.Error(t, err)
	var serr *fulfillment.SyncError
	assert.ErrorAs(t, err, &serr)
}

func TestNopNotifier(t *testing.T) {
	var n fulfillment.Notifier = fulfillment.NopNotifier{}
	assert.NoError(t, n.NotifyFulfillment(context.Background(), "sh-42"))
}
