package accrual_test

import (
	"errors"
	"testing"
	"time"

	"go-erp/internal/leave/accrual"
	leaveerrors "go-erp/internal/leave/errors"

	"github.com/stretchr/testify/assert"
)

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"single day", "2024-03-01", "2024-03-01", 1},
		{"three days", "2024-03-01", "2024-03-03", 3},
		{"across leap day", "2024-02-28", "2024-03-01", 3},
		{"across year end", "2025-12-30", "2026-01-02", 4},
		{"across dst change", "2026-03-07", "2026-03-09", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accrual.ComputeDuration(day(tt.start), day(tt.end)))
		})
	}

	t.Run("ignores clock time", func(t *testing.T) {
		loc := time.FixedZone("UTC+7", 7*3600)
		start := time.Date(2024, 3, 1, 23, 30, 0, 0, loc)
		end := time.Date(2024, 3, 3, 0, 15, 0, 0, loc)
		assert.Equal(t, 3, accrual.ComputeDuration(start, end))
	})

	t.Run("matches whole day difference plus one", func(t *testing.T) {
		start := day("2026-01-01")
		for n := 0; n < 400; n += 7 {
			end := start.AddDate(0, 0, n)
			assert.Equal(t, n+1, accrual.ComputeDuration(start, end))
		}
	})
}

func TestNormalizeRange(t *testing.T) {
	from, to := accrual.NormalizeRange(day("2026-05-10"), day("2026-05-02"))
	assert.Equal(t, day("2026-05-02"), from)
	assert.Equal(t, day("2026-05-10"), to)

	from, to = accrual.NormalizeRange(day("2026-05-02"), day("2026-05-10"))
	assert.Equal(t, day("2026-05-02"), from)
	assert.Equal(t, day("2026-05-10"), to)
}

func TestCheckRange(t *testing.T) {
	assert.NoError(t, accrual.CheckRange(day("2026-05-02"), day("2026-05-02")))
	assert.True(t, errors.Is(accrual.CheckRange(day("2026-05-03"), day("2026-05-02")), leaveerrors.ErrInvalidDateRange))
}

func TestParseDate(t *testing.T) {
	got, err := accrual.ParseDate("2026-10-19")
	assert.NoError(t, err)
	assert.Equal(t, "2026-10-19", accrual.FormatDate(got))

	_, err = accrual.ParseDate("19/10/2026")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)

	assert.Equal(t, "", accrual.FormatDate(time.Time{}))
}
