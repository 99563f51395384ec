package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPaystackBaseURL = "https://api.paystack.co"

// PaystackClient talks to the Paystack REST API. The platform delegates all
// card processing to Paystack's hosted checkout; this client only
// initializes and verifies transactions.
type PaystackClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewPaystackClient(secretKey, baseURL string) *PaystackClient {
	if baseURL == "" {
		baseURL = DefaultPaystackBaseURL
	}
	return &PaystackClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   baseURL,
		secretKey: secretKey,
	}
}

// InitializeResponse is the checkout session returned by Paystack.
type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// TransactionData is the verified state of one Paystack transaction.
// Amounts are in kobo (hundredths of a naira).
type TransactionData struct {
	Status    string                 `json:"status"`
	Reference string                 `json:"reference"`
	Amount    int64                  `json:"amount"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction creates a hosted checkout session. Amount is in the
// platform currency; Paystack expects kobo.
func (c *PaystackClient) InitializeTransaction(email string, amount decimal.Decimal, metadata map[string]interface{}) (*InitializeResponse, error) {
	payload := map[string]interface{}{
		"email":    email,
		"amount":   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"metadata": metadata,
	}

	var result InitializeResponse
	if err := c.post("/transaction/initialize", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyTransaction fetches the final state of a transaction by reference.
func (c *PaystackClient) VerifyTransaction(reference string) (*TransactionData, error) {
	var result TransactionData
	if err := c.get("/transaction/verify/"+reference, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *PaystackClient) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *PaystackClient) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.do(req, out)
}

func (c *PaystackClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read paystack response: %w", err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode paystack response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Status {
		return fmt.Errorf("paystack error (%d): %s", resp.StatusCode, envelope.Message)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode paystack data: %w", err)
		}
	}

	return nil
}

// ValidateWebhookSignature checks the x-paystack-signature header: an
// HMAC-SHA512 of the raw request body keyed with the secret key.
func ValidateWebhookSignature(body []byte, signature, secretKey string) bool {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookEvent is the payload Paystack POSTs to the webhook endpoint.
type WebhookEvent struct {
	Event string          `json:"event"`
	Data  TransactionData `json:"data"`
}
