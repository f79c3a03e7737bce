// Package payment verifies Paystack transactions for subscription purchases.
// Verified payments are reported back to the caller and not stored.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Paystack API root.
	DefaultBaseURL = "https://api.paystack.co"

	transactionSuccess = "success"
	minorUnitsPerMajor = 100
	maxResponseSize    = 1 << 20
	defaultHTTPTimeout = 15 * time.Second
)

var (
	// ErrNotConfigured is returned when no secret key is set.
	ErrNotConfigured = errors.New("payment verification is not configured")
	// ErrMissingReference is returned for an empty transaction reference.
	ErrMissingReference = errors.New("payment reference is required")
)

// DeclinedError is returned when Paystack does not report the transaction as
// successful. Message is Paystack's explanation.
type DeclinedError struct {
	Reference string
	Status    string
	Message   string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment %s not successful (status %q): %s", e.Reference, e.Status, e.Message)
}

// Verification is a successfully verified transaction.
type Verification struct {
	Reference    string  `json:"reference"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Plan         string  `json:"plan"`
	BillingCycle string  `json:"billingCycle"`
	UserID       string  `json:"userId"`
	PaidAt       string  `json:"paidAt"`
}

// verifyResponse mirrors the parts of Paystack's transaction verify response
// that are read.
type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Status    string `json:"status"`
		PaidAt    string `json:"paid_at"`
		Metadata  *struct {
			CustomFields []struct {
				VariableName string `json:"variable_name"`
				Value        string `json:"value"`
			} `json:"custom_fields"`
		} `json:"metadata"`
	} `json:"data"`
}

// Verifier checks transactions against the Paystack API.
type Verifier struct {
	secretKey string
	baseURL   string
	client    *http.Client
	logger    *zap.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(v *Verifier) {
		if baseURL != "" {
			v.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) {
		if client != nil {
			v.client = client
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewVerifier creates a verifier using the given Paystack secret key.
func NewVerifier(secretKey string, opts ...Option) *Verifier {
	v := &Verifier{
		secretKey: secretKey,
		baseURL:   DefaultBaseURL,
		client:    &http.Client{Timeout: defaultHTTPTimeout},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Configured reports whether a secret key is set.
func (v *Verifier) Configured() bool {
	return v.secretKey != ""
}

// Verify looks up a transaction by reference and returns it if it succeeded.
func (v *Verifier) Verify(ctx context.Context, reference string) (*Verification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrMissingReference
	}
	if !v.Configured() {
		return nil, ErrNotConfigured
	}

	reqURL := fmt.Sprintf("%s/transaction/verify/%s", v.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+v.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Paystack answers declined or unknown references with a 4xx status and a
	// regular JSON body, so the body is decoded regardless of status.
	var body verifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode paystack response (status %d): %w", resp.StatusCode, err)
	}

	if !body.Status || body.Data == nil || body.Data.Status != transactionSuccess {
		declined := &DeclinedError{Reference: reference, Message: body.Message}
		if body.Data != nil {
			declined.Status = body.Data.Status
		}
		v.logger.Info("Payment not verified",
			zap.String("reference", reference),
			zap.String("status", declined.Status),
			zap.String("message", body.Message))
		return nil, declined
	}

	fields := make(map[string]string)
	if body.Data.Metadata != nil {
		for _, f := range body.Data.Metadata.CustomFields {
			fields[f.VariableName] = f.Value
		}
	}

	verification := &Verification{
		Reference:    body.Data.Reference,
		Amount:       float64(body.Data.Amount) / minorUnitsPerMajor,
		Currency:     body.Data.Currency,
		Plan:         fields["plan"],
		BillingCycle: fields["billing_cycle"],
		UserID:       fields["user_id"],
		PaidAt:       body.Data.PaidAt,
	}

	v.logger.Info("Payment verified",
		zap.String("reference", verification.Reference),
		zap.Float64("amount", verification.Amount),
		zap.String("currency", verification.Currency),
		zap.String("plan", verification.Plan))

	return verification, nil
}
