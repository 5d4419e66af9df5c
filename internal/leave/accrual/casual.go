package accrual

import "time"

// EmploymentProbation is the employment status that zeroes casual and other
// leave quotas.
const EmploymentProbation = "Probation"

// AccrueCasual returns the casual leave earned in today's calendar year: one
// step of daysPerMonth for every completed month of service since January 1
// or the hire date, whichever is later. annualCap <= 0 means uncapped.
func AccrueCasual(hireDate, today time.Time, daysPerMonth, annualCap int) int {
	today = Date(today)
	start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if !hireDate.IsZero() && Date(hireDate).After(start) {
		start = Date(hireDate)
	}
	if start.After(today) || daysPerMonth <= 0 {
		return 0
	}

	months := (today.Year()-start.Year())*12 + int(today.Month()) - int(start.Month())
	if today.Day() < start.Day() {
		months--
	}
	days := max(months, 0) * daysPerMonth
	if annualCap > 0 && days > annualCap {
		days = annualCap
	}
	return days
}
