package accrual_test

import (
	"testing"
	"time"

	"go-erp/internal/leave/accrual"

	"github.com/stretchr/testify/assert"
)

func TestAccrueCasual(t *testing.T) {
	today := day("2026-10-19")

	tests := []struct {
		name   string
		hire   time.Time
		rate   int
		cap    int
		expect int
	}{
		{"hired years ago", day("2019-05-01"), 1, 12, 9},
		{"hired this year, day passed", day("2026-03-15"), 1, 12, 7},
		{"hired this year, day not reached", day("2026-03-25"), 1, 12, 6},
		{"hired this month", day("2026-10-01"), 1, 12, 0},
		{"hire date in future", day("2026-11-01"), 1, 12, 0},
		{"capped", day("2019-05-01"), 2, 12, 12},
		{"uncapped", day("2019-05-01"), 2, 0, 18},
		{"unknown hire date", time.Time{}, 1, 12, 9},
		{"no accrual rate", day("2019-05-01"), 0, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, accrual.AccrueCasual(tt.hire, today, tt.rate, tt.cap))
		})
	}
}
