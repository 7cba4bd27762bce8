package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EnvAuditAcceptThreshold    = "ATTEST_AUDIT_ACCEPT_THRESHOLD"
	EnvAuditAutoReadyThreshold = "ATTEST_AUDIT_AUTO_READY_THRESHOLD"
	EnvAuditSLAAtRiskWindow    = "ATTEST_AUDIT_SLA_AT_RISK_WINDOW"
	EnvAuditPublicHolidays     = "ATTEST_AUDIT_PUBLIC_HOLIDAYS"
)

const dateLayout = "2006-01-02"

// AuditConfig holds the tunable thresholds that drive variance derivation,
// evidence matching, SLA assessment, and ROI estimation. The distilled rules
// these feed are starting defaults, not fixed facts of the frameworks, so
// every threshold is configurable.
type AuditConfig struct {
	// AcceptThreshold is the minimum matcher confidence for an artifact to be
	// auto-assigned to a checklist descriptor.
	AcceptThreshold float64 `toml:"accept_threshold"`
	// AutoReadyThreshold routes newly created review items with confidence at
	// or above this value into the auto_ready queue instead of my_queue.
	AutoReadyThreshold float64 `toml:"auto_ready_threshold"`

	// Payslip line code sets used by variance derivation.
	OrdinaryCodes []string `toml:"ordinary_codes"`
	OvertimeCodes []string `toml:"overtime_codes"`
	PenaltyCodes  []string `toml:"penalty_codes"`

	// UnpaidBreakHours is the expected per-payrun unpaid break deduction;
	// BreakTolerance is the allowed deviation when tagging UNPAID_BREAK.
	UnpaidBreakHours string `toml:"unpaid_break_hours"`
	BreakTolerance   string `toml:"break_tolerance"`

	// Variance amount severity bucket boundaries (absolute dollars).
	HighThreshold   string `toml:"high_threshold"`
	MediumThreshold string `toml:"medium_threshold"`

	// PublicHolidays lists YYYY-MM-DD dates used by PH_PENALTY_MISSING.
	PublicHolidays []string `toml:"public_holidays"`

	// SLAAtRiskWindow is how long before the due date an open review item is
	// reported at_risk.
	SLAAtRiskWindow string `toml:"sla_at_risk_window"`

	// ROI baseline: the manual effort a completed review item displaces.
	BaselineMinutesPerItem int    `toml:"baseline_minutes_per_item"`
	BaselineHourlyRate     string `toml:"baseline_hourly_rate"`
}

// UnpaidBreakHoursDecimal returns UnpaidBreakHours as a decimal.
func (c *AuditConfig) UnpaidBreakHoursDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(c.UnpaidBreakHours)
	return d
}

// BreakToleranceDecimal returns BreakTolerance as a decimal.
func (c *AuditConfig) BreakToleranceDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(c.BreakTolerance)
	return d
}

// HighThresholdDecimal returns HighThreshold as a decimal.
func (c *AuditConfig) HighThresholdDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(c.HighThreshold)
	return d
}

// MediumThresholdDecimal returns MediumThreshold as a decimal.
func (c *AuditConfig) MediumThresholdDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(c.MediumThreshold)
	return d
}

// BaselineHourlyRateDecimal returns BaselineHourlyRate as a decimal.
func (c *AuditConfig) BaselineHourlyRateDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(c.BaselineHourlyRate)
	return d
}

// SLAAtRiskWindowDuration returns SLAAtRiskWindow as a time.Duration.
func (c *AuditConfig) SLAAtRiskWindowDuration() time.Duration {
	d, _ := time.ParseDuration(c.SLAAtRiskWindow)
	return d
}

// PublicHolidayDates returns PublicHolidays parsed as UTC dates.
// Invalid entries are skipped; validate catches them at load time.
func (c *AuditConfig) PublicHolidayDates() []time.Time {
	dates := make([]time.Time, 0, len(c.PublicHolidays))
	for _, raw := range c.PublicHolidays {
		if d, err := time.Parse(dateLayout, raw); err == nil {
			dates = append(dates, d)
		}
	}
	return dates
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuditConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AuditConfig) Merge(overlay *AuditConfig) {
	if overlay.AcceptThreshold != 0 {
		c.AcceptThreshold = overlay.AcceptThreshold
	}
	if overlay.AutoReadyThreshold != 0 {
		c.AutoReadyThreshold = overlay.AutoReadyThreshold
	}
	if overlay.OrdinaryCodes != nil {
		c.OrdinaryCodes = overlay.OrdinaryCodes
	}
	if overlay.OvertimeCodes != nil {
		c.OvertimeCodes = overlay.OvertimeCodes
	}
	if overlay.PenaltyCodes != nil {
		c.PenaltyCodes = overlay.PenaltyCodes
	}
	if overlay.UnpaidBreakHours != "" {
		c.UnpaidBreakHours = overlay.UnpaidBreakHours
	}
	if overlay.BreakTolerance != "" {
		c.BreakTolerance = overlay.BreakTolerance
	}
	if overlay.HighThreshold != "" {
		c.HighThreshold = overlay.HighThreshold
	}
	if overlay.MediumThreshold != "" {
		c.MediumThreshold = overlay.MediumThreshold
	}
	if overlay.PublicHolidays != nil {
		c.PublicHolidays = overlay.PublicHolidays
	}
	if overlay.SLAAtRiskWindow != "" {
		c.SLAAtRiskWindow = overlay.SLAAtRiskWindow
	}
	if overlay.BaselineMinutesPerItem != 0 {
		c.BaselineMinutesPerItem = overlay.BaselineMinutesPerItem
	}
	if overlay.BaselineHourlyRate != "" {
		c.BaselineHourlyRate = overlay.BaselineHourlyRate
	}
}

func (c *AuditConfig) loadDefaults() {
	if c.AcceptThreshold == 0 {
		c.AcceptThreshold = 0.65
	}
	if c.AutoReadyThreshold == 0 {
		c.AutoReadyThreshold = 0.9
	}
	if len(c.OrdinaryCodes) == 0 {
		c.OrdinaryCodes = []string{"ORD", "ORDINARY"}
	}
	if len(c.OvertimeCodes) == 0 {
		c.OvertimeCodes = []string{"OT1.5", "OT2.0", "OVERTIME"}
	}
	if len(c.PenaltyCodes) == 0 {
		c.PenaltyCodes = []string{"PH", "PH2.5", "PENALTY"}
	}
	if c.UnpaidBreakHours == "" {
		c.UnpaidBreakHours = "0.5"
	}
	if c.BreakTolerance == "" {
		c.BreakTolerance = "0.1"
	}
	if c.HighThreshold == "" {
		c.HighThreshold = "500"
	}
	if c.MediumThreshold == "" {
		c.MediumThreshold = "100"
	}
	if c.SLAAtRiskWindow == "" {
		c.SLAAtRiskWindow = "48h"
	}
	if c.BaselineMinutesPerItem == 0 {
		c.BaselineMinutesPerItem = 30
	}
	if c.BaselineHourlyRate == "" {
		c.BaselineHourlyRate = "85"
	}
}

func (c *AuditConfig) loadEnv() {
	if v := os.Getenv(EnvAuditAcceptThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.AcceptThreshold = f
		}
	}
	if v := os.Getenv(EnvAuditAutoReadyThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.AutoReadyThreshold = f
		}
	}
	if v := os.Getenv(EnvAuditSLAAtRiskWindow); v != "" {
		c.SLAAtRiskWindow = v
	}
	if v := os.Getenv(EnvAuditPublicHolidays); v != "" {
		dates := strings.Split(v, ",")
		c.PublicHolidays = make([]string, 0, len(dates))
		for _, d := range dates {
			if trimmed := strings.TrimSpace(d); trimmed != "" {
				c.PublicHolidays = append(c.PublicHolidays, trimmed)
			}
		}
	}
}

func (c *AuditConfig) validate() error {
	if c.AcceptThreshold < 0 || c.AcceptThreshold > 1 {
		return fmt.Errorf("accept_threshold must be in [0,1]: %f", c.AcceptThreshold)
	}
	if c.AutoReadyThreshold < 0 || c.AutoReadyThreshold > 1 {
		return fmt.Errorf("auto_ready_threshold must be in [0,1]: %f", c.AutoReadyThreshold)
	}

	for _, field := range []struct{ name, value string }{
		{"unpaid_break_hours", c.UnpaidBreakHours},
		{"break_tolerance", c.BreakTolerance},
		{"high_threshold", c.HighThreshold},
		{"medium_threshold", c.MediumThreshold},
		{"baseline_hourly_rate", c.BaselineHourlyRate},
	} {
		if _, err := decimal.NewFromString(field.value); err != nil {
			return fmt.Errorf("invalid %s: %w", field.name, err)
		}
	}

	if _, err := time.ParseDuration(c.SLAAtRiskWindow); err != nil {
		return fmt.Errorf("invalid sla_at_risk_window: %w", err)
	}

	for _, raw := range c.PublicHolidays {
		if _, err := time.Parse(dateLayout, raw); err != nil {
			return fmt.Errorf("invalid public holiday date %q: %w", raw, err)
		}
	}

	if c.BaselineMinutesPerItem < 1 {
		return fmt.Errorf("baseline_minutes_per_item must be positive")
	}

	return nil
}
