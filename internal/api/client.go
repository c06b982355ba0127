package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/service"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-call id that the server echoes and logs.
const RequestIDHeader = "X-Request-ID"

// Client talks to the incident API over HTTP. It satisfies service.Backend.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

var _ service.Backend = (*Client)(nil)

// NewClient returns a Client for cfg.BaseURL.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *Client) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	var out []domain.Incident
	if err := c.get(ctx, "/incidencias", &out); err != nil {
		return nil, fmt.Errorf("listing incidents: %w", err)
	}
	return out, nil
}

func (c *Client) GetIncident(ctx context.Context, id int64) (*domain.Incident, error) {
	var out domain.Incident
	if err := c.get(ctx, fmt.Sprintf("/incidencias/%d", id), &out); err != nil {
		return nil, fmt.Errorf("getting incident %d: %w", id, err)
	}
	return &out, nil
}

type statusBody struct {
	Status domain.Status `json:"estado"`
}

// UpdateStatus issues exactly one PUT. It is never retried: a failed write
// is reported to the caller, which decides what to roll back.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	path := fmt.Sprintf("/incidencias/%d/estado", id)
	if err := c.send(ctx, http.MethodPut, path, statusBody{Status: status}, nil); err != nil {
		return fmt.Errorf("updating incident %d: %w", id, err)
	}
	return nil
}

func (c *Client) CreateIncident(ctx context.Context, inc *domain.Incident) error {
	if err := c.send(ctx, http.MethodPost, "/incidencias", inc, inc); err != nil {
		return fmt.Errorf("creating incident: %w", err)
	}
	return nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var out domain.User
	if err := c.get(ctx, fmt.Sprintf("/usuarios/%d", id), &out); err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.get(ctx, "/usuarios", &out); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, u *domain.User) error {
	if err := c.send(ctx, http.MethodPost, "/usuarios", u, u); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (c *Client) ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := c.get(ctx, fmt.Sprintf("/notificaciones/usuario/%d", userID), &out); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	domain.SortNotifications(out)
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/notificaciones/%d/leida", id), nil, nil); err != nil {
		return fmt.Errorf("marking notification %d read: %w", id, err)
	}
	return nil
}

// Healthy reports whether the server answers its health check.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// get retries transport failures and 5xx responses with exponential backoff.
// Malformed bodies fail on the first attempt.
func (c *Client) get(ctx context.Context, path string, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	requestID := uuid.NewString()
	attempts := 0
	var status int

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), ctx)

	err := backoff.Retry(func() error {
		attempts++
		var err error
		status, err = c.do(ctx, http.MethodGet, path, requestID, nil, out)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)

	err = c.classify(ctx, err)
	c.observe(http.MethodGet, path, requestID, status, attempts, start, err)
	return err
}

// send performs a single write.
func (c *Client) send(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	requestID := uuid.NewString()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	status, err := c.do(ctx, method, path, requestID, body, out)
	err = c.classify(ctx, err)
	c.observe(method, path, requestID, status, 1, start, err)
	return err
}

func (c *Client) do(ctx context.Context, method, path, requestID string, body io.Reader, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: reading body: %v", ErrBadResponse, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if out == nil || len(respBody) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: decoding body: %v", ErrBadResponse, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

// classify maps transport failures onto the package sentinels.
func (c *Client) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *Client) observe(method, path, requestID string, status, attempts int, start time.Time, err error) {
	c.observer.OnCallComplete(CallEvent{
		Method:    method,
		Path:      path,
		RequestID: requestID,
		Status:    status,
		Attempts:  attempts,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}
