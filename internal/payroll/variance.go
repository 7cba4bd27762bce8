package payroll

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/attest-hq/attest/internal/config"
)

// Exception codes assigned by the derivation rules, in evaluation order.
const (
	ExcMissingTimesheet = "MISSING_TS"
	ExcPostTermPay      = "POST_TERM_PAY"
	ExcOvertimePaidNoTS = "OT_PAID_NO_TS"
	ExcPHPenaltyMissing = "PH_PENALTY_MISSING"
	ExcStpError         = "STP_ERROR"
	ExcUnpaidBreak      = "UNPAID_BREAK"
	ExcManualTimesheet  = "MANUAL_TS_ENTRY"
)

// Variance severity buckets, derived from the absolute dollar variance.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// Rules carries the tunable inputs of the variance engine.
type Rules struct {
	OrdinaryCodes    []string
	OvertimeCodes    []string
	PenaltyCodes     []string
	UnpaidBreakHours decimal.Decimal
	BreakTolerance   decimal.Decimal
	HighThreshold    decimal.Decimal
	MediumThreshold  decimal.Decimal
	PublicHolidays   []time.Time
}

// RulesFromConfig builds engine rules from the audit configuration.
func RulesFromConfig(cfg config.AuditConfig) Rules {
	return Rules{
		OrdinaryCodes:    cfg.OrdinaryCodes,
		OvertimeCodes:    cfg.OvertimeCodes,
		PenaltyCodes:     cfg.PenaltyCodes,
		UnpaidBreakHours: cfg.UnpaidBreakHoursDecimal(),
		BreakTolerance:   cfg.BreakToleranceDecimal(),
		HighThreshold:    cfg.HighThresholdDecimal(),
		MediumThreshold:  cfg.MediumThresholdDecimal(),
		PublicHolidays:   cfg.PublicHolidayDates(),
	}
}

// Variance is the derived reconciliation result for an employee and payrun.
type Variance struct {
	EmployeeID     string          `json:"employee_id"`
	PayrunID       string          `json:"payrun_id"`
	TaaHours       decimal.Decimal `json:"taa_hours"`
	PaidHours      decimal.Decimal `json:"paid_hours"`
	VarianceHours  decimal.Decimal `json:"variance_hours"`
	VarianceAmount decimal.Decimal `json:"variance_amount"`
	Exceptions     []string        `json:"exceptions"`
	Severity       string          `json:"severity"`
	ReconciledAt   time.Time       `json:"reconciled_at"`
}

// Derive reconciles the record's timesheets against its payslips for a
// single payrun. Hours paid minus hours recorded gives the signed variance;
// the dollar variance scales by the employee's base rate. Exception codes
// are assigned by rule in a fixed order, never by manual tagging.
func Derive(rec EmployeeAuditRecord, payrunID string, rules Rules) Variance {
	timesheets := filterTimesheets(rec.Timesheets, payrunID)
	payslips := filterPayslips(rec.Payslips, payrunID)

	v := Variance{
		EmployeeID: rec.EmployeeID,
		PayrunID:   payrunID,
		TaaHours:   decimal.Zero,
		PaidHours:  decimal.Zero,
		Exceptions: []string{},
	}

	for _, ts := range timesheets {
		v.TaaHours = v.TaaHours.Add(ts.Hours)
	}

	for _, ps := range payslips {
		if slices.Contains(rules.OrdinaryCodes, ps.LineCode) {
			v.PaidHours = v.PaidHours.Add(ps.Quantity)
		}
	}

	v.VarianceHours = v.PaidHours.Sub(v.TaaHours)
	v.VarianceAmount = v.VarianceHours.Mul(rec.BaseRate)
	v.Severity = bucketSeverity(v.VarianceAmount, rules)

	if len(payslips) > 0 && len(timesheets) == 0 {
		v.Exceptions = append(v.Exceptions, ExcMissingTimesheet)
	}

	if postTermPay(rec, payslips) {
		v.Exceptions = append(v.Exceptions, ExcPostTermPay)
	}

	if overtimePaidNoTimesheet(timesheets, payslips, rules) {
		v.Exceptions = append(v.Exceptions, ExcOvertimePaidNoTS)
	}

	if penaltyMissing(payslips, rules) {
		v.Exceptions = append(v.Exceptions, ExcPHPenaltyMissing)
	}

	for _, ps := range payslips {
		if ps.StpStatus == StpError {
			v.Exceptions = append(v.Exceptions, ExcStpError)
			break
		}
	}

	if unpaidBreak(v.VarianceHours, rules) {
		v.Exceptions = append(v.Exceptions, ExcUnpaidBreak)
	}

	for _, ts := range timesheets {
		if ts.IsManual {
			v.Exceptions = append(v.Exceptions, ExcManualTimesheet)
			break
		}
	}

	return v
}

func filterTimesheets(entries []TimesheetEntry, payrunID string) []TimesheetEntry {
	var out []TimesheetEntry
	for _, ts := range entries {
		if ts.PayrunID == payrunID {
			out = append(out, ts)
		}
	}
	return out
}

func filterPayslips(entries []PayslipEntry, payrunID string) []PayslipEntry {
	var out []PayslipEntry
	for _, ps := range entries {
		if ps.PayrunID == payrunID {
			out = append(out, ps)
		}
	}
	return out
}

func bucketSeverity(amount decimal.Decimal, rules Rules) string {
	abs := amount.Abs()
	switch {
	case abs.GreaterThanOrEqual(rules.HighThreshold):
		return SeverityHigh
	case abs.GreaterThanOrEqual(rules.MediumThreshold):
		return SeverityMedium
	}
	return SeverityLow
}

func postTermPay(rec EmployeeAuditRecord, payslips []PayslipEntry) bool {
	if rec.Status != EmploymentTerminated || rec.TerminationDate == nil {
		return false
	}

	for _, ps := range payslips {
		if ps.PeriodEnd.After(*rec.TerminationDate) {
			return true
		}
	}
	return false
}

func overtimePaidNoTimesheet(timesheets []TimesheetEntry, payslips []PayslipEntry, rules Rules) bool {
	var paid bool
	for _, ps := range payslips {
		if slices.Contains(rules.OvertimeCodes, ps.LineCode) && ps.Quantity.IsPositive() {
			paid = true
			break
		}
	}
	if !paid {
		return false
	}

	for _, ts := range timesheets {
		if ts.IsOvertime {
			return false
		}
	}
	return true
}

// penaltyMissing reports a public holiday inside the payslip period with
// no penalty-rate line present.
func penaltyMissing(payslips []PayslipEntry, rules Rules) bool {
	if len(payslips) == 0 {
		return false
	}

	start, end := payslips[0].PeriodStart, payslips[0].PeriodEnd
	for _, ps := range payslips[1:] {
		if ps.PeriodStart.Before(start) {
			start = ps.PeriodStart
		}
		if ps.PeriodEnd.After(end) {
			end = ps.PeriodEnd
		}
	}

	var holiday bool
	for _, d := range rules.PublicHolidays {
		if !d.Before(start) && !d.After(end) {
			holiday = true
			break
		}
	}
	if !holiday {
		return false
	}

	for _, ps := range payslips {
		if slices.Contains(rules.PenaltyCodes, ps.LineCode) {
			return false
		}
	}
	return true
}

// unpaidBreak reports a variance whose magnitude matches the expected
// unpaid-break deduction within tolerance.
func unpaidBreak(varianceHours decimal.Decimal, rules Rules) bool {
	if varianceHours.IsZero() {
		return false
	}

	diff := varianceHours.Abs().Sub(rules.UnpaidBreakHours).Abs()
	return diff.LessThanOrEqual(rules.BreakTolerance)
}
