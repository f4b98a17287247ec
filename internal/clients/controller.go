package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fundverse/fundverse-server/internal/models"
)

// DealController is the external SPV deal controller. Only its call contract
// is consumed here; its internals are out of scope.
type DealController interface {
	CreateDeal(ctx context.Context, startupID string, equityPercent uint8, totalRaise, fractionPrice int64) (int64, error)
}

// HTTPDealController talks to the controller service over HTTP/JSON.
type HTTPDealController struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDealController creates a controller client for the given base URL.
func NewHTTPDealController(baseURL string) *HTTPDealController {
	return &HTTPDealController{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type createDealRequest struct {
	StartupID     string `json:"startupId"`
	EquityPercent uint8  `json:"equityPercent"`
	TotalRaise    int64  `json:"totalRaise"`
	FractionPrice int64  `json:"fractionPrice"`
}

type createDealResponse struct {
	DealID int64 `json:"dealId"`
}

func (c *HTTPDealController) CreateDeal(ctx context.Context, startupID string, equityPercent uint8, totalRaise, fractionPrice int64) (int64, error) {
	payload := createDealRequest{
		StartupID:     startupID,
		EquityPercent: equityPercent,
		TotalRaise:    totalRaise,
		FractionPrice: fractionPrice,
	}

	var result createDealResponse
	if err := postJSON(ctx, c.client, c.baseURL+"/deals", payload, &result); err != nil {
		return 0, models.ErrExternalCall(err, "deal controller call failed")
	}
	return result.DealID, nil
}

// postJSON posts a JSON body and decodes a JSON response into out. Non-2xx
// responses are returned as errors carrying the response body.
func postJSON(ctx context.Context, client *http.Client, url string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("remote returned %d: %s", resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
