package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-erp/internal/leave"
	leaveerrors "go-erp/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok         bool            `json:"ok"`
	Data       json.RawMessage `json:"data"`
	Error      *apiError       `json:"error"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	listMineFn        func(ctx context.Context, companyID, employeeID string) ([]leave.LeaveResponse, error)
	casualAvailableFn func(ctx context.Context, companyID, employeeID string) (leave.CasualAvailabilityResponse, error)
	balancesFn        func(ctx context.Context, companyID, employeeID string) (leave.BalancesResponse, error)
	validateFn        func(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.ValidationResponse, error)
	createFn          func(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	updateFn          func(ctx context.Context, companyID, actorID, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	reviewFn          func(ctx context.Context, companyID, reviewerID, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error)
	deleteFn          func(ctx context.Context, companyID, actorID, id string, canDeleteAny bool) error
	listFn            func(ctx context.Context, companyID string, page, limit int) (leave.LeavePage, error)
	exportFn          func(ctx context.Context, companyID string, w io.Writer) error
}

func (f *fakeLeaveService) ListMine(ctx context.Context, companyID, employeeID string) ([]leave.LeaveResponse, error) {
	return f.listMineFn(ctx, companyID, employeeID)
}
func (f *fakeLeaveService) CasualAvailable(ctx context.Context, companyID, employeeID string) (leave.CasualAvailabilityResponse, error) {
	return f.casualAvailableFn(ctx, companyID, employeeID)
}
func (f *fakeLeaveService) Balances(ctx context.Context, companyID, employeeID string) (leave.BalancesResponse, error) {
	return f.balancesFn(ctx, companyID, employeeID)
}
func (f *fakeLeaveService) Validate(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.ValidationResponse, error) {
	return f.validateFn(ctx, companyID, actorID, req)
}
func (f *fakeLeaveService) Create(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, companyID, actorID, req)
}
func (f *fakeLeaveService) Update(ctx context.Context, companyID, actorID, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, companyID, actorID, id, req)
}
func (f *fakeLeaveService) Review(ctx context.Context, companyID, reviewerID, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	return f.reviewFn(ctx, companyID, reviewerID, id, req)
}
func (f *fakeLeaveService) Delete(ctx context.Context, companyID, actorID, id string, canDeleteAny bool) error {
	return f.deleteFn(ctx, companyID, actorID, id, canDeleteAny)
}
func (f *fakeLeaveService) List(ctx context.Context, companyID string, page, limit int) (leave.LeavePage, error) {
	return f.listFn(ctx, companyID, page, limit)
}
func (f *fakeLeaveService) Export(ctx context.Context, companyID string, w io.Writer) error {
	return f.exportFn(ctx, companyID, w)
}

func newTestContext(method, target, body string, companyID, employeeID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", companyID)
	c.Set("employee_id", employeeID)
	return c, w
}

func TestLeaveHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, cid, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "Sick", req.LeaveType)
				return leave.LeaveResponse{
					ID:           uuid.New().String(),
					EmployeeID:   aid,
					LeaveType:    req.LeaveType,
					StartDate:    req.StartDate,
					EndDate:      req.EndDate,
					DurationDays: 2,
					Reason:       req.Reason,
					Status:       "Pending",
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		body := `{"leaveType":"Sick","startDate":"2026-10-20","endDate":"2026-10-21","reason":"Flu"}`
		c, w := newTestContext(http.MethodPost, "/leaves", body, companyID, actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, actorID, got.EmployeeID)
		assert.Equal(t, 2, got.DurationDays)
		assert.Equal(t, "Pending", got.Status)
	})

	t.Run("binding error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newTestContext(http.MethodPost, "/leaves", `{}`, companyID, actorID)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		}
	})

	t.Run("lead time violation maps to 422", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, cid, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeadTimeViolation
			},
		}
		h := leave.NewHandler(svc)
		body := `{"leaveType":"Paid","startDate":"2026-10-20","endDate":"2026-10-21","reason":"Trip"}`
		c, w := newTestContext(http.MethodPost, "/leaves", body, companyID, actorID)

		h.Create(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "LEAD_TIME_VIOLATION", env.Error.Code)
	})

	t.Run("unknown error maps to 500", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, cid, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("create failed")
			},
		}
		h := leave.NewHandler(svc)
		body := `{"leaveType":"Sick","startDate":"2026-10-20","endDate":"2026-10-21","reason":"Flu"}`
		c, w := newTestContext(http.MethodPost, "/leaves", body, companyID, actorID)

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_ListMine(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	svc := &fakeLeaveService{
		listMineFn: func(ctx context.Context, cid, eid string) ([]leave.LeaveResponse, error) {
			assert.Equal(t, actorID, eid)
			return []leave.LeaveResponse{{ID: "l1", Status: "Approved"}, {ID: "l2", Status: "Pending"}}, nil
		},
	}
	h := leave.NewHandler(svc)
	c, w := newTestContext(http.MethodGet, "/leaves/my", "", companyID, actorID)

	h.ListMine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got leave.LeaveListResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got.Leaves, 2)
}

func TestLeaveHandler_CasualAvailable(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			casualAvailableFn: func(ctx context.Context, cid, eid string) (leave.CasualAvailabilityResponse, error) {
				return leave.CasualAvailabilityResponse{Casual: 4, EmpStatus: "Permanent"}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(http.MethodGet, "/leaves/casualLeaveAvailable", "", companyID, actorID)

		h.CasualAvailable(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"casual":4,"emp_status":"Permanent"}`, string(decodeEnvelope(t, w.Body.Bytes()).Data))
	})

	t.Run("unavailable", func(t *testing.T) {
		svc := &fakeLeaveService{
			casualAvailableFn: func(ctx context.Context, cid, eid string) (leave.CasualAvailabilityResponse, error) {
				return leave.CasualAvailabilityResponse{}, leaveerrors.ErrCasualQuotaUnavailable
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(http.MethodGet, "/leaves/casualLeaveAvailable", "", companyID, actorID)

		h.CasualAvailable(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestLeaveHandler_Review(t *testing.T) {
	companyID := uuid.New().String()
	reviewerID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, cid, rid, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, reviewerID, rid)
				assert.Equal(t, leaveID, id)
				assert.Equal(t, "Rejected", req.Status)
				return leave.LeaveResponse{ID: id, Status: req.Status}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(http.MethodPatch, "/leaves/"+leaveID+"/review", `{"status":"Rejected","reviewNotes":"busy week"}`, companyID, reviewerID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Review(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("already decided", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, cid, rid, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotPending
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(http.MethodPatch, "/leaves/"+leaveID+"/review", `{"status":"Approved"}`, companyID, reviewerID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Review(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	leaveID := uuid.New().String()

	for _, canDeleteAny := range []bool{false, true} {
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, cid, aid, id string, deleteAny bool) error {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, canDeleteAny, deleteAny)
				return nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newTestContext(http.MethodDelete, "/leaves/"+leaveID, "", companyID, actorID)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set(leave.CanDeleteAnyLeave, canDeleteAny)

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestLeaveHandler_List(t *testing.T) {
	companyID := uuid.New().String()

	svc := &fakeLeaveService{
		listFn: func(ctx context.Context, cid string, page, limit int) (leave.LeavePage, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, limit)
			return leave.LeavePage{
				Leaves:     []leave.LeaveResponse{{ID: "a"}, {ID: "b"}},
				Total:      7,
				Page:       2,
				Limit:      5,
				TotalPages: 2,
			}, nil
		},
	}
	h := leave.NewHandler(svc)
	c, w := newTestContext(http.MethodGet, "/leaves?page=2&limit=5", "", companyID, uuid.New().String())

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
	assert.Equal(t, int64(7), env.Total)
	assert.Equal(t, 2, env.Page)
	assert.Equal(t, 2, env.TotalPages)

	var data leave.LeaveListResponse
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Leaves, 2)
}

func TestLeaveHandler_Export(t *testing.T) {
	svc := &fakeLeaveService{
		exportFn: func(ctx context.Context, cid string, w io.Writer) error {
			_, err := w.Write([]byte("xlsx-bytes"))
			return err
		},
	}
	h := leave.NewHandler(svc)
	c, w := newTestContext(http.MethodGet, "/leaves/export", "", uuid.New().String(), uuid.New().String())

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}
