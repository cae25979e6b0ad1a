// Package payment invokes the managed payment function. The gateway itself is
// a black box; the core only reacts to an approved charge.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/romeuwb/pedelogo-78-sub001/internal/service"
)

type Client struct {
	FunctionURL string
	APIKey      string
	HTTPClient  *http.Client
}

func NewClient(functionURL, apiKey string) *Client {
	return &Client{
		FunctionURL: functionURL,
		APIKey:      apiKey,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type chargeRequest struct {
	OrderID       int64   `json:"orderId"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount"`
}

type chargeResponse struct {
	Status       string `json:"status"`
	ClientSecret string `json:"clientSecret,omitempty"`
	PixCode      string `json:"pixCode,omitempty"`
}

func (c *Client) Charge(ctx context.Context, orderID int64, method string, amount float64) (*service.PaymentResult, error) {
	body, err := json.Marshal(chargeRequest{OrderID: orderID, PaymentMethod: method, Amount: amount})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.FunctionURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment function call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment function returned status %d", resp.StatusCode)
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}

	result := &service.PaymentResult{
		Status:       out.Status,
		ClientSecret: out.ClientSecret,
		PixCode:      out.PixCode,
	}
	if out.PixCode != "" {
		png, err := qrcode.Encode(out.PixCode, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("failed to render pix qr code: %w", err)
		}
		result.QRCodePNG = png
	}
	return result, nil
}

var _ service.PaymentGateway = (*Client)(nil)
