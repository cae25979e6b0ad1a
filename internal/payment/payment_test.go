package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_Charge(t *testing.T) {
	t.Run("approved_pix_charge_renders_qr", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			var req chargeRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(11), req.OrderID)
			assert.Equal(t, "pix", req.PaymentMethod)

			json.NewEncoder(w).Encode(chargeResponse{Status: "approved", PixCode: "00020126580014br.gov.bcb.pix"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "secret")
		res, err := c.Charge(context.Background(), 11, "pix", 79)
		assert.NoError(t, err)
		assert.Equal(t, "approved", res.Status)
		assert.NotEmpty(t, res.QRCodePNG)
		// a real PNG comes back, not a placeholder
		assert.True(t, bytes.HasPrefix(res.QRCodePNG, []byte("\x89PNG")))
	})

	t.Run("card_charge_has_no_qr", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(chargeResponse{Status: "pending", ClientSecret: "cs_123"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "secret")
		res, err := c.Charge(context.Background(), 11, "card", 79)
		assert.NoError(t, err)
		assert.Equal(t, "pending", res.Status)
		assert.Equal(t, "cs_123", res.ClientSecret)
		assert.Empty(t, res.QRCodePNG)
	})

	t.Run("non_200_is_an_error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "secret")
		_, err := c.Charge(context.Background(), 11, "pix", 79)
		assert.Error(t, err)
	})
}
