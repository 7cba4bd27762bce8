package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/attest-hq/attest/internal/config"
)

func TestAuditConfigDefaults(t *testing.T) {
	var c config.AuditConfig
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize() = %v", err)
	}

	if c.AcceptThreshold != 0.65 {
		t.Errorf("AcceptThreshold = %f, want 0.65", c.AcceptThreshold)
	}
	if c.AutoReadyThreshold != 0.9 {
		t.Errorf("AutoReadyThreshold = %f, want 0.9", c.AutoReadyThreshold)
	}
	if c.BaselineMinutesPerItem != 30 {
		t.Errorf("BaselineMinutesPerItem = %d, want 30", c.BaselineMinutesPerItem)
	}
	if !c.BaselineHourlyRateDecimal().Equal(decimal.NewFromInt(85)) {
		t.Errorf("BaselineHourlyRate = %s, want 85", c.BaselineHourlyRate)
	}
	if c.SLAAtRiskWindowDuration() != 48*time.Hour {
		t.Errorf("SLAAtRiskWindow = %s, want 48h", c.SLAAtRiskWindow)
	}
	if !c.HighThresholdDecimal().Equal(decimal.NewFromInt(500)) {
		t.Errorf("HighThreshold = %s, want 500", c.HighThreshold)
	}
	if !c.MediumThresholdDecimal().Equal(decimal.NewFromInt(100)) {
		t.Errorf("MediumThreshold = %s, want 100", c.MediumThreshold)
	}
}

func TestAuditConfigMerge(t *testing.T) {
	base := config.AuditConfig{}
	if err := base.Finalize(); err != nil {
		t.Fatalf("Finalize() = %v", err)
	}

	base.Merge(&config.AuditConfig{
		BaselineMinutesPerItem: 45,
		BaselineHourlyRate:     "120",
	})

	if base.BaselineMinutesPerItem != 45 {
		t.Errorf("BaselineMinutesPerItem = %d, want overlay 45", base.BaselineMinutesPerItem)
	}
	if base.BaselineHourlyRate != "120" {
		t.Errorf("BaselineHourlyRate = %s, want overlay 120", base.BaselineHourlyRate)
	}
	if base.AcceptThreshold != 0.65 {
		t.Errorf("AcceptThreshold = %f, zero overlay fields must not overwrite", base.AcceptThreshold)
	}
}

func TestAuditConfigEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvAuditAutoReadyThreshold, "0.75")
	t.Setenv(config.EnvAuditPublicHolidays, "2026-06-08, 2026-12-25")

	var c config.AuditConfig
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize() = %v", err)
	}

	if c.AutoReadyThreshold != 0.75 {
		t.Errorf("AutoReadyThreshold = %f, want env 0.75", c.AutoReadyThreshold)
	}
	if len(c.PublicHolidays) != 2 || c.PublicHolidays[0] != "2026-06-08" {
		t.Errorf("PublicHolidays = %v, want trimmed env dates", c.PublicHolidays)
	}
}

func TestAuditConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.AuditConfig)
	}{
		{"threshold out of range", func(c *config.AuditConfig) { c.AcceptThreshold = 1.5 }},
		{"non-decimal rate", func(c *config.AuditConfig) { c.BaselineHourlyRate = "ninety" }},
		{"bad sla window", func(c *config.AuditConfig) { c.SLAAtRiskWindow = "two days" }},
		{"bad holiday date", func(c *config.AuditConfig) { c.PublicHolidays = []string{"08/06/2026"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c config.AuditConfig
			tt.mutate(&c)
			if err := c.Finalize(); err == nil {
				t.Error("Finalize() = nil, want validation error")
			}
		})
	}
}
