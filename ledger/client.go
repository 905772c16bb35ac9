package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Errors distinguishing "the wallet said no" from "the network did not answer".
// A confirmation timeout means the outcome is unknown: the transfer may still
// land, so callers must not retry automatically.
var (
	ErrRejected            = errors.New("ledger: rejected by wallet")
	ErrConfirmationTimeout = errors.New("ledger: confirmation timeout")
)

// CertificateMetadata is the NFT payload for a course-completion certificate
type CertificateMetadata struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Issuer      string            `json:"issuer"`
	Learner     string            `json:"learner"`
	CourseID    uint              `json:"course_id"`
	CompletedAt time.Time         `json:"completed_at"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// MintResult is the confirmed outcome of a certificate mint
type MintResult struct {
	TokenID string `json:"token_id"`
	TxHash  string `json:"tx_hash"`
}

// Client talks to the ledger gateway, which brokers wallet interactions
// (payment approval, message signing, NFT minting) and block confirmation.
type Client struct {
	http           *resty.Client
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

func NewClient(baseURL string, confirmTimeout, pollInterval time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:           client,
		confirmTimeout: confirmTimeout,
		pollInterval:   pollInterval,
	}
}

type submitResponse struct {
	TxHash string `json:"tx_hash"`
	Status string `json:"status"` // CONFIRMED, PENDING, REJECTED
	Error  string `json:"error"`
}

// Transfer moves amount units from the learner's wallet to the recipient and
// waits for block confirmation, bounded by the configured timeout.
func (c *Client) Transfer(ctx context.Context, from, to string, amount uint) (string, error) {
	body := map[string]interface{}{
		"from":   from,
		"to":     to,
		"amount": amount,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(body).
		Post("/transfer")
	if err != nil {
		return "", fmt.Errorf("ledger transfer request failed: %w", err)
	}

	submitted, err := parseSubmit(resp)
	if err != nil {
		return "", err
	}

	if submitted.Status == "PENDING" {
		if err := c.awaitConfirmation(ctx, submitted.TxHash); err != nil {
			return "", err
		}
	}

	return submitted.TxHash, nil
}

// RequestSignature asks the learner's wallet to sign the payload and returns
// the signature. Used as proof of wallet control at enrollment and login.
func (c *Client) RequestSignature(ctx context.Context, signer, payload string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"signer":  signer,
			"payload": payload,
		}).
		Post("/sign")
	if err != nil {
		return "", fmt.Errorf("ledger signature request failed: %w", err)
	}

	if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
		return "", fmt.Errorf("%w: %s", ErrRejected, resp.String())
	}
	if resp.IsError() {
		return "", fmt.Errorf("ledger signature request failed: %s", resp.String())
	}

	var signed struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(resp.Body(), &signed); err != nil {
		return "", fmt.Errorf("invalid signature response: %w", err)
	}
	if signed.Signature == "" {
		return "", fmt.Errorf("%w: empty signature", ErrRejected)
	}

	return signed.Signature, nil
}

// MintCertificate mints a completion certificate NFT to the owner's wallet.
// Minting is not idempotent at the ledger level: a retry after an ambiguous
// failure can mint twice. Callers decide whether to retry.
func (c *Client) MintCertificate(ctx context.Context, owner string, metadata CertificateMetadata) (*MintResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(map[string]interface{}{
			"owner":    owner,
			"metadata": metadata,
		}).
		Post("/mint")
	if err != nil {
		return nil, fmt.Errorf("ledger mint request failed: %w", err)
	}

	if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.String())
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ledger mint request failed: %s", resp.String())
	}

	var result struct {
		TokenID string `json:"token_id"`
		TxHash  string `json:"tx_hash"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("invalid mint response: %w", err)
	}

	if result.Status == "PENDING" {
		if err := c.awaitConfirmation(ctx, result.TxHash); err != nil {
			return nil, err
		}
	}

	return &MintResult{TokenID: result.TokenID, TxHash: result.TxHash}, nil
}

func parseSubmit(resp *resty.Response) (*submitResponse, error) {
	if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.String())
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ledger submission failed: %s", resp.String())
	}

	var submitted submitResponse
	if err := json.Unmarshal(resp.Body(), &submitted); err != nil {
		return nil, fmt.Errorf("invalid ledger response: %w", err)
	}
	if submitted.Status == "REJECTED" {
		return nil, fmt.Errorf("%w: %s", ErrRejected, submitted.Error)
	}

	return &submitted, nil
}

// awaitConfirmation polls the transaction until it confirms or the bounded
// wait elapses. On timeout the outcome is unknown.
func (c *Client) awaitConfirmation(ctx context.Context, txHash string) error {
	deadline := time.Now().Add(c.confirmTimeout)

	for {
		resp, err := c.http.R().
			SetContext(ctx).
			Get("/tx/" + txHash)
		if err == nil && !resp.IsError() {
			var status struct {
				Status string `json:"status"`
				Error  string `json:"error"`
			}
			if jsonErr := json.Unmarshal(resp.Body(), &status); jsonErr == nil {
				switch status.Status {
				case "CONFIRMED":
					return nil
				case "REJECTED", "REVERTED":
					return fmt.Errorf("%w: %s", ErrRejected, status.Error)
				}
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: tx %s unconfirmed after %s", ErrConfirmationTimeout, txHash, c.confirmTimeout)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrConfirmationTimeout, ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}
