package payroll_test

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/attest-hq/attest/internal/payroll"
)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRules() payroll.Rules {
	return payroll.Rules{
		OrdinaryCodes:    []string{"ORD"},
		OvertimeCodes:    []string{"OT1.5", "OT2.0"},
		PenaltyCodes:     []string{"PH2.5"},
		UnpaidBreakHours: decimal.RequireFromString("0.5"),
		BreakTolerance:   decimal.RequireFromString("0.05"),
		HighThreshold:    decimal.NewFromInt(500),
		MediumThreshold:  decimal.NewFromInt(100),
		PublicHolidays:   []time.Time{date(2026, 6, 8)},
	}
}

func baseRecord() payroll.EmployeeAuditRecord {
	return payroll.EmployeeAuditRecord{
		EmployeeID:   "E-1042",
		EmployeeName: "Dana Whitfield",
		Status:       payroll.EmploymentActive,
		BaseRate:     decimal.NewFromInt(40),
		Timesheets: []payroll.TimesheetEntry{
			{EmployeeID: "E-1042", PayrunID: "PR-1", Date: date(2026, 6, 1), Hours: decimal.NewFromInt(38)},
		},
		Payslips: []payroll.PayslipEntry{
			{
				EmployeeID:  "E-1042",
				PayrunID:    "PR-1",
				PeriodStart: date(2026, 6, 1),
				PeriodEnd:   date(2026, 6, 7),
				LineCode:    "ORD",
				Quantity:    decimal.NewFromInt(38),
				Amount:      decimal.NewFromInt(1520),
				StpStatus:   payroll.StpSuccess,
			},
		},
	}
}

func TestDeriveCleanMatch(t *testing.T) {
	v := payroll.Derive(baseRecord(), "PR-1", testRules())

	if !v.VarianceHours.IsZero() {
		t.Errorf("VarianceHours = %s, want 0", v.VarianceHours)
	}
	if !v.VarianceAmount.IsZero() {
		t.Errorf("VarianceAmount = %s, want 0", v.VarianceAmount)
	}
	if v.Severity != payroll.SeverityLow {
		t.Errorf("Severity = %s, want Low", v.Severity)
	}
	if len(v.Exceptions) != 0 {
		t.Errorf("Exceptions = %v, want none", v.Exceptions)
	}
}

func TestDeriveVarianceArithmetic(t *testing.T) {
	rec := baseRecord()
	rec.Payslips[0].Quantity = decimal.NewFromInt(42)

	v := payroll.Derive(rec, "PR-1", testRules())

	if !v.TaaHours.Equal(decimal.NewFromInt(38)) {
		t.Errorf("TaaHours = %s, want 38", v.TaaHours)
	}
	if !v.PaidHours.Equal(decimal.NewFromInt(42)) {
		t.Errorf("PaidHours = %s, want 42", v.PaidHours)
	}
	if !v.VarianceHours.Equal(decimal.NewFromInt(4)) {
		t.Errorf("VarianceHours = %s, want 4", v.VarianceHours)
	}
	if !v.VarianceAmount.Equal(decimal.NewFromInt(160)) {
		t.Errorf("VarianceAmount = %s, want 160", v.VarianceAmount)
	}
	if v.Severity != payroll.SeverityMedium {
		t.Errorf("Severity = %s, want Medium", v.Severity)
	}
}

func TestDeriveSeverityBuckets(t *testing.T) {
	rules := testRules()

	t.Run("low", func(t *testing.T) {
		rec := baseRecord()
		rec.Payslips[0].Quantity = decimal.NewFromInt(39)
		if v := payroll.Derive(rec, "PR-1", rules); v.Severity != payroll.SeverityLow {
			t.Errorf("Severity = %s, want Low", v.Severity)
		}
	})

	t.Run("medium boundary is inclusive", func(t *testing.T) {
		rec := baseRecord()
		rec.Payslips[0].Quantity = decimal.RequireFromString("40.5")
		if v := payroll.Derive(rec, "PR-1", rules); v.Severity != payroll.SeverityMedium {
			t.Errorf("Severity = %s, want Medium", v.Severity)
		}
	})

	t.Run("negative variance uses magnitude", func(t *testing.T) {
		rec := baseRecord()
		rec.Payslips[0].Quantity = decimal.NewFromInt(25)
		if v := payroll.Derive(rec, "PR-1", rules); v.Severity != payroll.SeverityHigh {
			t.Errorf("Severity = %s, want High", v.Severity)
		}
	})
}

func TestDeriveMissingTimesheet(t *testing.T) {
	rec := baseRecord()
	rec.Timesheets = nil

	v := payroll.Derive(rec, "PR-1", testRules())

	if !slices.Contains(v.Exceptions, payroll.ExcMissingTimesheet) {
		t.Errorf("Exceptions = %v, want %s", v.Exceptions, payroll.ExcMissingTimesheet)
	}
}

func TestDerivePostTermPay(t *testing.T) {
	rec := baseRecord()
	rec.Status = payroll.EmploymentTerminated
	rec.TerminationDate = ptr(date(2026, 6, 3))

	v := payroll.Derive(rec, "PR-1", testRules())

	if !slices.Contains(v.Exceptions, payroll.ExcPostTermPay) {
		t.Errorf("Exceptions = %v, want %s", v.Exceptions, payroll.ExcPostTermPay)
	}

	t.Run("active employee never flagged", func(t *testing.T) {
		v := payroll.Derive(baseRecord(), "PR-1", testRules())
		if slices.Contains(v.Exceptions, payroll.ExcPostTermPay) {
			t.Errorf("Exceptions = %v, want no %s", v.Exceptions, payroll.ExcPostTermPay)
		}
	})
}

func TestDeriveOvertimePaidNoTimesheet(t *testing.T) {
	rec := baseRecord()
	rec.Payslips = append(rec.Payslips, payroll.PayslipEntry{
		EmployeeID:  rec.EmployeeID,
		PayrunID:    "PR-1",
		PeriodStart: date(2026, 6, 1),
		PeriodEnd:   date(2026, 6, 7),
		LineCode:    "OT1.5",
		Quantity:    decimal.NewFromInt(4),
		Amount:      decimal.NewFromInt(240),
		StpStatus:   payroll.StpSuccess,
	})

	v := payroll.Derive(rec, "PR-1", testRules())
	if !slices.Contains(v.Exceptions, payroll.ExcOvertimePaidNoTS) {
		t.Errorf("Exceptions = %v, want %s", v.Exceptions, payroll.ExcOvertimePaidNoTS)
	}

	t.Run("overtime timesheet clears the flag", func(t *testing.T) {
		rec.Timesheets = append(rec.Timesheets, payroll.TimesheetEntry{
			EmployeeID: rec.EmployeeID,
			PayrunID:   "PR-1",
			Date:       date(2026, 6, 6),
			Hours:      decimal.NewFromInt(4),
			IsOvertime: true,
		})

		v := payroll.Derive(rec, "PR-1", testRules())
		if slices.Contains(v.Exceptions, payroll.ExcOvertimePaidNoTS) {
			t.Errorf("Exceptions = %v, want no %s", v.Exceptions, payroll.ExcOvertimePaidNoTS)
		}
	})
}

func TestDerivePublicHolidayPenaltyMissing(t *testing.T) {
	rec := baseRecord()
	rec.Payslips[0].PeriodStart = date(2026, 6, 8)
	rec.Payslips[0].PeriodEnd = date(2026, 6, 14)

	v := payroll.Derive(rec, "PR-1", testRules())
	if !slices.Contains(v.Exceptions, payroll.ExcPHPenaltyMissing) {
		t.Errorf("Exceptions = %v, want %s", v.Exceptions, payroll.ExcPHPenaltyMissing)
	}

	t.Run("penalty line clears the flag", func(t *testing.T) {
		rec.Payslips = append(rec.Payslips, payroll.PayslipEntry{
			EmployeeID:  rec.EmployeeID,
			PayrunID:    "PR-1",
			PeriodStart: date(2026, 6, 8),
			PeriodEnd:   date(2026, 6, 14),
			LineCode:    "PH2.5",
			Quantity:    decimal.NewFromInt(8),
			Amount:      decimal.NewFromInt(800),
			StpStatus:   payroll.StpSuccess,
		})

		v := payroll.Derive(rec, "PR-1", testRules())
		if slices.Contains(v.Exceptions, payroll.ExcPHPenaltyMissing) {
			t.Errorf("Exceptions = %v, want no %s", v.Exceptions, payroll.ExcPHPenaltyMissing)
		}
	})

	t.Run("holiday outside period not flagged", func(t *testing.T) {
		v := payroll.Derive(baseRecord(), "PR-1", testRules())
		if slices.Contains(v.Exceptions, payroll.ExcPHPenaltyMissing) {
			t.Errorf("Exceptions = %v, want no %s", v.Exceptions, payroll.ExcPHPenaltyMissing)
		}
	})
}

func TestDeriveStpError(t *testing.T) {
	rec := baseRecord()
	rec.Payslips[0].StpStatus = payroll.StpError

	v := payroll.Derive(rec, "PR-1", testRules())
	if !slices.Contains(v.Exceptions, payroll.ExcStpError) {
		t.Errorf("Exceptions = %v, want %s", v.Exceptions, payroll.ExcStpError)
	}
}

func TestDeriveUnpaidBreak(t *testing.T) {
	rec := baseRecord()
	rec.Payslips[0].Quantity = decimal.RequireFromString("37.5")

	v := payroll.Derive(rec, "PR-1", testRules())
	if !slices.Contains(v.Exceptions, payroll.ExcUnpaidBreak) {
		t.Errorf("Exceptions = %v, want %s", v.Exceptions, payroll.ExcUnpaidBreak)
	}

	t.Run("zero variance never flagged", func(t *testing.T) {
		v := payroll.Derive(baseRecord(), "PR-1", testRules())
		if slices.Contains(v.Exceptions, payroll.ExcUnpaidBreak) {
			t.Errorf("Exceptions = %v, want no %s", v.Exceptions, payroll.ExcUnpaidBreak)
		}
	})

	t.Run("outside tolerance not flagged", func(t *testing.T) {
		rec := baseRecord()
		rec.Payslips[0].Quantity = decimal.NewFromInt(37)

		v := payroll.Derive(rec, "PR-1", testRules())
		if slices.Contains(v.Exceptions, payroll.ExcUnpaidBreak) {
			t.Errorf("Exceptions = %v, want no %s", v.Exceptions, payroll.ExcUnpaidBreak)
		}
	})
}

func TestDeriveManualTimesheetEntry(t *testing.T) {
	rec := baseRecord()
	rec.Timesheets[0].IsManual = true

	v := payroll.Derive(rec, "PR-1", testRules())
	if !slices.Contains(v.Exceptions, payroll.ExcManualTimesheet) {
		t.Errorf("Exceptions = %v, want %s", v.Exceptions, payroll.ExcManualTimesheet)
	}
}

func TestDeriveFiltersByPayrun(t *testing.T) {
	rec := baseRecord()
	rec.Timesheets = append(rec.Timesheets, payroll.TimesheetEntry{
		EmployeeID: rec.EmployeeID,
		PayrunID:   "PR-2",
		Date:       date(2026, 6, 15),
		Hours:      decimal.NewFromInt(38),
		IsManual:   true,
	})

	v := payroll.Derive(rec, "PR-1", testRules())

	if !v.TaaHours.Equal(decimal.NewFromInt(38)) {
		t.Errorf("TaaHours = %s, want 38 (other payrun excluded)", v.TaaHours)
	}
	if slices.Contains(v.Exceptions, payroll.ExcManualTimesheet) {
		t.Errorf("manual flag leaked from another payrun: %v", v.Exceptions)
	}
}
