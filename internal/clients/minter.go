package clients

import (
	"context"
	"net/http"
	"time"

	"github.com/fundverse/fundverse-server/internal/models"
)

// MintRequest is the contract of the certificate minter. The idempotency key
// lets the minter drop a retried mint whose first response was lost; the
// resulting certificate is immutable and non-transferable.
type MintRequest struct {
	Owner          string `json:"owner"`
	SpvID          int64  `json:"spvId"`
	DealID         int64  `json:"dealId"`
	Amount         int64  `json:"amount"`
	Fractions      int64  `json:"fractions"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// CertificateMinter is the external certificate minting service.
type CertificateMinter interface {
	MintCertificate(ctx context.Context, req MintRequest) (int64, error)
}

// HTTPCertificateMinter talks to the minter service over HTTP/JSON.
type HTTPCertificateMinter struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCertificateMinter creates a minter client for the given base URL.
func NewHTTPCertificateMinter(baseURL string) *HTTPCertificateMinter {
	return &HTTPCertificateMinter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type mintResponse struct {
	TokenID int64 `json:"tokenId"`
}

func (m *HTTPCertificateMinter) MintCertificate(ctx context.Context, req MintRequest) (int64, error) {
	var result mintResponse
	if err := postJSON(ctx, m.client, m.baseURL+"/certificates", req, &result); err != nil {
		return 0, models.ErrExternalCall(err, "certificate minter call failed")
	}
	return result.TokenID, nil
}
