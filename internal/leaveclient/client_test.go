package leaveclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-erp/internal/leave"
	"go-erp/internal/leave/accrual"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api/v1/", Token: "tok", Timeout: time.Second})
	assert.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, base := range []string{"", "  ", "not a url"} {
		_, err := New(Config{BaseURL: base})
		assert.Error(t, err, "base=%q", base)
	}
}

func TestClient_ListMine(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/leaves/my", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"ok":true,"data":{"leaves":[{"id":"a","leaveType":"Sick","startDate":"2024-03-01","endDate":"2024-03-03","status":"Approved"}]}}`)
	})

	records, err := c.ListMine(context.Background())

	assert.NoError(t, err)
	if assert.Len(t, records, 1) {
		assert.Equal(t, 3, records[0].DurationDays)
	}
}

func TestClient_ListMine_UnreadableBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	})

	_, err := c.ListMine(context.Background())

	assert.True(t, errors.Is(err, ErrOperationFailed))
}

func TestClient_CasualAvailable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "enveloped", body: `{"ok":true,"data":{"casual":4,"emp_status":"Permanent"}}`},
		{name: "bare", body: `{"casual":4,"emp_status":"Permanent"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/leaves/casualLeaveAvailable", r.URL.Path)
				_, _ = io.WriteString(w, tt.body)
			})

			q, err := c.CasualAvailable(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, leave.CasualQuota{Casual: 4, EmpStatus: "Permanent"}, q)
		})
	}
}

func TestClient_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/leaves", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body leave.CreateLeaveRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2026-10-20", body.StartDate)
		assert.Equal(t, "2026-10-21", body.EndDate)
		assert.Equal(t, "Sick", body.LeaveType)
		assert.Equal(t, "Pending", body.Status)
		if assert.NotNil(t, body.Casual) {
			assert.False(t, *body.Casual)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"ok":true,"data":{"id":"new","employeeId":"e1","leaveType":"Sick","startDate":"2026-10-20","endDate":"2026-10-21","durationDays":2,"status":"Pending"}}`)
	})

	rec, err := c.Create(context.Background(), accrual.NormalizedRequest{
		EmployeeID:   "e1",
		LeaveType:    accrual.Sick,
		StartDate:    time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC),
		DurationDays: 2,
		Reason:       "flu",
		Status:       accrual.StatusPending,
	})

	assert.NoError(t, err)
	assert.Equal(t, "new", rec.ID)
	assert.Equal(t, accrual.StatusPending, rec.Status)
	assert.Equal(t, 2, rec.DurationDays)
}

func TestClient_StoreErrorIsOperationFailed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"ok":false,"error":{"code":"LEAVE_OVERLAP","message":"overlap"}}`)
	})

	_, err := c.Review(context.Background(), "a", accrual.StatusApproved, "fine")

	assert.True(t, errors.Is(err, ErrOperationFailed))
	var storeErr *StoreError
	if assert.True(t, errors.As(err, &storeErr)) {
		assert.Equal(t, http.StatusConflict, storeErr.StatusCode)
		assert.Equal(t, "LEAVE_OVERLAP", storeErr.Code)
	}
}

func TestClient_UnreachableStore(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	assert.NoError(t, err)

	err = c.Delete(context.Background(), "a")

	assert.True(t, errors.Is(err, ErrOperationFailed))
}

func TestClient_UpdateReviewDelete(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			_, _ = io.WriteString(w, `{"ok":true,"data":{"deleted":true}}`)
		default:
			_, _ = io.WriteString(w, `{"ok":true,"data":{"id":"a","leaveType":"Paid","startDate":"2026-11-02","endDate":"2026-11-03","status":"Approved"}}`)
		}
	})

	_, err := c.Update(context.Background(), "a", leave.UpdateLeaveRequest{StartDate: "2026-11-02", EndDate: "2026-11-03", Reason: "trip", LeaveType: "Paid"})
	assert.NoError(t, err)
	rec, err := c.Review(context.Background(), "a", accrual.StatusApproved, "")
	assert.NoError(t, err)
	assert.Equal(t, accrual.StatusApproved, rec.Status)
	assert.NoError(t, c.Delete(context.Background(), "a"))

	assert.Equal(t, []string{
		"PATCH /api/v1/leaves/a",
		"PATCH /api/v1/leaves/a/review",
		"DELETE /api/v1/leaves/a",
	}, calls)
}

func TestClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"ok":true,"data":{"leaves":[{"id":"a","leaveType":"Sick","startDate":"2024-03-01","endDate":"2024-03-01","status":"Pending"}]},"total":6,"page":2,"totalPages":2}`)
	})

	page, err := c.List(context.Background(), 2, 5)

	assert.NoError(t, err)
	assert.Len(t, page.Records, 1)
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
}
