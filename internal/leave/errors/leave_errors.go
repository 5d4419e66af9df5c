package leaveerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

// Validation outcomes produced by the accrual engine.
var (
	ErrMissingField = apperror.New(
		apperror.CodeMissingField,
		"missing required field",
		http.StatusBadRequest,
	)
	ErrLeadTimeViolation = apperror.New(
		apperror.CodeLeadTimeViolation,
		"start date does not respect the minimum notice for this leave type",
		http.StatusUnprocessableEntity,
	)
	ErrQuotaExceeded = apperror.New(
		apperror.CodeQuotaExceeded,
		"requested duration exceeds the quota for this leave type",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidDateRange,
		"endDate must be on or after startDate",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrReasonTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"reason must be at most 500 characters",
		http.StatusBadRequest,
	)
)

// Store errors.
var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEmployeeMismatch = apperror.New(
		apperror.CodeForbidden,
		"leave can only be requested for the authenticated employee",
		http.StatusForbidden,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInitialStatus = apperror.New(
		apperror.CodeInvalidInput,
		"new leave must start in Pending status",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrNotLeaveOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee can change this leave",
		http.StatusForbidden,
	)
	ErrLeaveNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave has already been reviewed",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusBadRequest,
	)
	ErrCasualQuotaUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"casual leave availability could not be determined",
		http.StatusServiceUnavailable,
	)
)
