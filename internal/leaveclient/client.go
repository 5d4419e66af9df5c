// Package leaveclient talks to the Leave Records Store over REST and keeps
// an employee's leave view in step with it.
package leaveclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-erp/internal/leave"
	"go-erp/internal/leave/accrual"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// ErrOperationFailed is what callers see for any transport or store failure.
// The underlying cause is logged, not surfaced.
var ErrOperationFailed = errors.New("leave store operation failed")

// StoreError is a non-2xx answer from the store. It matches ErrOperationFailed
// under errors.Is.
type StoreError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("leave store returned %d", e.StatusCode)
	}
	return fmt.Sprintf("leave store returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *StoreError) Unwrap() error { return ErrOperationFailed }

// Config is everything the client needs; nothing is read from the process
// environment.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// ListPage is one page of the company-wide listing.
type ListPage struct {
	Records    []accrual.Record
	Total      int64
	Page       int
	TotalPages int
}

func New(cfg Config, logger ...*zap.Logger) (*Client, error) {
	l := zap.L().Named("leaveclient")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveclient")
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("leaveclient: invalid base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: base, token: cfg.Token, http: httpClient, logger: l}, nil
}

func (c *Client) ListMine(ctx context.Context) ([]accrual.Record, error) {
	body, err := c.do(ctx, http.MethodGet, "/leaves/my", nil, nil)
	if err != nil {
		return nil, err
	}
	records, err := NormalizeLeaveListResponse(body)
	if err != nil {
		c.logger.Warn("list my leaves: unreadable response", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	return records, nil
}

func (c *Client) CasualAvailable(ctx context.Context) (leave.CasualQuota, error) {
	body, err := c.do(ctx, http.MethodGet, "/leaves/casualLeaveAvailable", nil, nil)
	if err != nil {
		return leave.CasualQuota{}, err
	}

	var q leave.CasualQuota
	if err := decodeData(body, &q); err != nil {
		c.logger.Warn("casual availability: unreadable response", zap.Error(err))
		return leave.CasualQuota{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	return q, nil
}

// Create submits a request the engine has already validated. Each call sends
// a fresh Idempotency-Key, so a replay by an intermediary is harmless.
func (c *Client) Create(ctx context.Context, req accrual.NormalizedRequest) (accrual.Record, error) {
	casual := req.Casual
	payload := leave.CreateLeaveRequest{
		StartDate: accrual.FormatDate(req.StartDate),
		EndDate:   accrual.FormatDate(req.EndDate),
		Reason:    req.Reason,
		Employee:  req.EmployeeID,
		LeaveType: string(req.LeaveType),
		Status:    string(req.Status),
		Casual:    &casual,
	}
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	return c.writeLeave(ctx, http.MethodPost, "/leaves", payload, headers)
}

func (c *Client) Update(ctx context.Context, id string, req leave.UpdateLeaveRequest) (accrual.Record, error) {
	return c.writeLeave(ctx, http.MethodPatch, "/leaves/"+url.PathEscape(id), req, nil)
}

func (c *Client) Review(ctx context.Context, id string, status accrual.Status, notes string) (accrual.Record, error) {
	payload := leave.ReviewLeaveRequest{Status: string(status), ReviewNotes: notes}
	return c.writeLeave(ctx, http.MethodPatch, "/leaves/"+url.PathEscape(id)+"/review", payload, nil)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/leaves/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) List(ctx context.Context, page, limit int) (ListPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/leaves"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return ListPage{}, err
	}

	var meta struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		TotalPages int   `json:"totalPages"`
	}
	records, err := NormalizeLeaveListResponse(body)
	if err == nil {
		err = json.Unmarshal(body, &meta)
	}
	if err != nil {
		c.logger.Warn("list leaves: unreadable response", zap.Error(err))
		return ListPage{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}

	return ListPage{Records: records, Total: meta.Total, Page: meta.Page, TotalPages: meta.TotalPages}, nil
}

func (c *Client) writeLeave(ctx context.Context, method, path string, payload any, headers map[string]string) (accrual.Record, error) {
	body, err := c.do(ctx, method, path, payload, headers)
	if err != nil {
		return accrual.Record{}, err
	}

	var w wireLeave
	if err := decodeData(body, &w); err != nil {
		c.logger.Warn("leave write: unreadable response", zap.String("path", path), zap.Error(err))
		return accrual.Record{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	r, err := w.toRecord()
	if err != nil {
		return accrual.Record{}, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	return r, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("leave store unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOperationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		storeErr := decodeStoreError(resp.StatusCode, body)
		c.logger.Warn("leave store rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", storeErr.Code),
		)
		return nil, storeErr
	}
	return body, nil
}

// decodeData reads {ok, data: v} and falls back to a bare v.
func decodeData(body []byte, v any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return json.Unmarshal(env.Data, v)
	}
	return json.Unmarshal(body, v)
}

func decodeStoreError(status int, body []byte) *StoreError {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &env)
	return &StoreError{StatusCode: status, Code: env.Error.Code, Message: env.Error.Message}
}
