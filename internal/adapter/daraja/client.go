package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kamaubrian/dukapay/internal/config"
)

const (
	tokenPath = "/oauth/v1/generate?grant_type=client_credentials"
	pushPath  = "/mpesa/stkpush/v1/processrequest"

	timestampLayout = "20060102150405"
	transactionType = "CustomerPayBillOnline"

	// Tokens are valid for an hour; refresh a bit early to absorb clock skew.
	tokenExpiryMargin = 30 * time.Second
)

// ErrAuthFailure indicates the client-credentials exchange was declined.
var ErrAuthFailure = errors.New("gateway auth failure")

// ErrUnavailable indicates the gateway could not be reached.
var ErrUnavailable = errors.New("gateway unavailable")

// RejectedError carries the gateway's reason for declining a push request.
type RejectedError struct {
	Code        string
	Description string
}

func (e RejectedError) Error() string {
	return fmt.Sprintf("rejected by gateway (%s): %s", e.Code, e.Description)
}

// PushRequest describes a payment push to be sent to the customer's handset.
type PushRequest struct {
	OrderID string
	Amount  int64
	Phone   string
}

// PushResponse carries the gateway's acceptance of a push request.
// CheckoutRequestID is the correlation token matched against the later callback.
type PushResponse struct {
	CheckoutRequestID string
	MerchantRequestID string
	CustomerMessage   string
}

// Client exposes payment push submission against the mobile-money gateway.
type Client interface {
	STKPush(ctx context.Context, req PushRequest) (*PushResponse, error)
}

// HTTPClient implements Client over the Daraja HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	creds      config.GatewayConfig
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type pushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type pushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// NewHTTPClient creates a gateway client with default timeout.
func NewHTTPClient(creds config.GatewayConfig, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(creds.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		creds:   creds,
		logger:  logger,
		now:     time.Now,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// STKPush submits a payment push for the given order. The returned
// CheckoutRequestID must be persisted before reporting success upstream,
// since the confirmation callback may race the response.
func (c *HTTPClient) STKPush(ctx context.Context, req PushRequest) (*PushResponse, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().UTC().Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString([]byte(c.creds.ShortCode + c.creds.Passkey + timestamp))

	payload := pushPayload{
		BusinessShortCode: c.creds.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            req.Amount,
		PartyA:            req.Phone,
		PartyB:            c.creds.ShortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.creds.CallbackURL,
		AccountReference:  req.OrderID,
		TransactionDesc:   "dukapay order " + req.OrderID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(pushPath), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var data pushResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Error("push response malformed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("decode push response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || data.ResponseCode != "0" {
		desc := data.ResponseDescription
		if desc == "" {
			desc = resp.Status
		}
		return nil, RejectedError{Code: data.ResponseCode, Description: desc}
	}

	return &PushResponse{
		CheckoutRequestID: data.CheckoutRequestID,
		MerchantRequestID: data.MerchantRequestID,
		CustomerMessage:   data.CustomerMessage,
	}, nil
}

// accessToken returns a cached bearer token, refreshing it when expired.
func (c *HTTPClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExp) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(tokenPath), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.creds.ConsumerKey, c.creds.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("token exchange failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return "", fmt.Errorf("%w: %s", ErrAuthFailure, resp.Status)
	}

	var data tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrAuthFailure, err)
	}
	if data.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuthFailure)
	}

	ttl := time.Hour
	if d, err := time.ParseDuration(data.ExpiresIn + "s"); err == nil && d > 0 {
		ttl = d
	}

	c.token = data.AccessToken
	c.tokenExp = c.now().Add(ttl - tokenExpiryMargin)
	return c.token, nil
}

func (c *HTTPClient) endpoint(p string) string {
	return strings.TrimSuffix(c.baseURL.String(), "/") + p
}
