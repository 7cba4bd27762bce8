package api_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/attest-hq/attest/internal/api"
	"github.com/attest-hq/attest/internal/config"
	"github.com/attest-hq/attest/pkg/openapi"
)

func testConfig() *config.Config {
	return &config.Config{
		Version: "0.1.0",
		API: config.APIConfig{
			BasePath: "/api",
			OpenAPI: openapi.Config{
				Title:       "Attest API",
				Description: "Payroll compliance attestation service.",
			},
		},
	}
}

func TestBuildSpec(t *testing.T) {
	spec := api.BuildSpec(testConfig())

	if spec.Info.Title != "Attest API" {
		t.Errorf("Title = %q, want Attest API", spec.Info.Title)
	}
	if spec.Info.Version != "0.1.0" {
		t.Errorf("Version = %q, want 0.1.0", spec.Info.Version)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("Servers = %+v, want single /api entry", spec.Servers)
	}

	for _, path := range []string{
		"/findings",
		"/reviews/metrics",
		"/payroll/explanations",
		"/evidence/{id}/download",
		"/checklists/{id}/complete",
		"/populate",
		"/notifications",
		"/snapshots/export",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("Paths missing %s", path)
		}
	}

	findings, ok := spec.Paths["/findings"]
	if !ok {
		t.Fatal("Paths missing /findings")
	}
	if findings.Get == nil || findings.Post == nil {
		t.Error("/findings must declare GET and POST operations")
	}
}

func TestWriteSpecFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")

	if err := openapi.WriteJSON(api.BuildSpec(testConfig()), path); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read spec file: %v", err)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal spec file: %v", err)
	}

	if doc.OpenAPI != "3.1.0" {
		t.Errorf("openapi = %q, want 3.1.0", doc.OpenAPI)
	}
	if doc.Info.Title != "Attest API" {
		t.Errorf("title = %q, want Attest API", doc.Info.Title)
	}
}
