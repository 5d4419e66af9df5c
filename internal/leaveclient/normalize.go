package leaveclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-erp/internal/leave/accrual"
)

var (
	ErrUnrecognizedEnvelope = errors.New("unrecognized leave list envelope")
	ErrMalformedRecord      = errors.New("malformed leave record")
)

// wireLeave accepts both the camelCase contract and the employee reference
// expanded into an object.
type wireLeave struct {
	ID           string          `json:"id"`
	LegacyID     string          `json:"_id"`
	EmployeeID   string          `json:"employeeId"`
	Employee     json.RawMessage `json:"employee"`
	LeaveType    string          `json:"leaveType"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	DurationDays int             `json:"durationDays"`
	Reason       string          `json:"reason"`
	Status       string          `json:"status"`
	ReviewNotes  *string         `json:"reviewNotes"`
	ReviewedBy   *string         `json:"reviewedBy"`
	ReviewedAt   *string         `json:"reviewedAt"`
}

// NormalizeLeaveListResponse turns any listing shape the store returns into
// engine records: a bare array, {leaves: [...]}, {data: {leaves: [...]}} or
// {data: [...]}. Types and statuses are matched case-insensitively, reversed
// ranges are swapped and durationDays is recomputed from the dates.
func NormalizeLeaveListResponse(raw []byte) ([]accrual.Record, error) {
	items, err := unwrapLeaveList(raw)
	if err != nil {
		return nil, err
	}

	records := make([]accrual.Record, 0, len(items))
	for i, item := range items {
		var w wireLeave
		if err := json.Unmarshal(item, &w); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedRecord, i, err)
		}
		r, err := w.toRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedRecord, i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func unwrapLeaveList(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrUnrecognizedEnvelope
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedEnvelope, err)
		}
		return items, nil
	case '{':
		var obj struct {
			Leaves json.RawMessage `json:"leaves"`
			Data   json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedEnvelope, err)
		}
		if isJSONArray(obj.Leaves) {
			return unwrapLeaveList(obj.Leaves)
		}
		if isJSONArray(obj.Data) {
			return unwrapLeaveList(obj.Data)
		}
		if len(obj.Data) > 0 && obj.Data[0] == '{' {
			var inner struct {
				Leaves json.RawMessage `json:"leaves"`
			}
			if err := json.Unmarshal(obj.Data, &inner); err == nil && isJSONArray(inner.Leaves) {
				return unwrapLeaveList(inner.Leaves)
			}
		}
	}
	return nil, ErrUnrecognizedEnvelope
}

func isJSONArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func (w wireLeave) toRecord() (accrual.Record, error) {
	r := accrual.Record{
		ID:           w.ID,
		EmployeeID:   w.EmployeeID,
		DurationDays: w.DurationDays,
		Reason:       w.Reason,
		ReviewNotes:  deref(w.ReviewNotes),
		ReviewedBy:   deref(w.ReviewedBy),
	}
	if r.ID == "" {
		r.ID = w.LegacyID
	}
	if r.EmployeeID == "" {
		r.EmployeeID = employeeRef(w.Employee)
	}

	// Unknown values are kept as-is; balance computation skips them.
	if t, ok := accrual.ParseLeaveType(w.LeaveType); ok {
		r.LeaveType = t
	} else {
		r.LeaveType = accrual.LeaveType(w.LeaveType)
	}
	if st, ok := accrual.ParseStatus(w.Status); ok {
		r.Status = st
	} else {
		r.Status = accrual.Status(w.Status)
	}

	start, err := parseWireDate(w.StartDate)
	if err != nil {
		return accrual.Record{}, fmt.Errorf("startDate %q: %w", w.StartDate, err)
	}
	end, err := parseWireDate(w.EndDate)
	if err != nil {
		return accrual.Record{}, fmt.Errorf("endDate %q: %w", w.EndDate, err)
	}
	if !start.IsZero() && !end.IsZero() {
		start, end = accrual.NormalizeRange(start, end)
		r.DurationDays = accrual.ComputeDuration(start, end)
	}
	r.StartDate, r.EndDate = start, end

	if w.ReviewedAt != nil && *w.ReviewedAt != "" {
		if at, err := time.Parse(time.RFC3339, *w.ReviewedAt); err == nil {
			r.ReviewedAt = &at
		}
	}
	return r, nil
}

// parseWireDate reads YYYY-MM-DD and also full timestamps, keeping only the
// calendar day. An empty string is a missing date.
func parseWireDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) > len(accrual.DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return accrual.Date(t), nil
		}
		s = s[:len(accrual.DateLayout)]
	}
	return accrual.ParseDate(s)
}

func employeeRef(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var id string
	if json.Unmarshal(raw, &id) == nil {
		return id
	}
	var obj struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.ID != "" {
			return obj.ID
		}
		return obj.LegacyID
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
