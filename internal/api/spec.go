package api

import (
	"github.com/attest-hq/attest/internal/config"
	"github.com/attest-hq/attest/pkg/openapi"
)

// BuildSpec assembles the OpenAPI document served at /openapi.json and
// written by the server's -openapi flag. Path entries carry summaries and
// tags only; schemas live with the domain entities and are not duplicated
// here.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	addPaths(spec, map[string]*openapi.PathItem{
		"/findings": {
			Get:  op("List findings", "findings"),
			Post: op("Create a finding", "findings"),
		},
		"/findings/search": {
			Post: op("Search findings with filters", "findings"),
		},
		"/findings/{id}": {
			Get: op("Find a finding by id", "findings"),
			Put: op("Update a finding", "findings"),
		},
		"/findings/{id}/notes": {
			Post: op("Append a note to a finding", "findings"),
		},
		"/findings/{id}/status": {
			Post: op("Transition a finding's status", "findings"),
		},
		"/findings/status": {
			Post: op("Batch status transition", "findings"),
		},
		"/reviews": {
			Get:  op("List review items", "reviews"),
			Post: op("Create a review item", "reviews"),
		},
		"/reviews/search": {
			Post: op("Search review items with filters", "reviews"),
		},
		"/reviews/metrics": {
			Get: op("Review throughput and ROI metrics", "reviews"),
		},
		"/reviews/{id}": {
			Get: op("Find a review item by id", "reviews"),
		},
		"/reviews/{id}/validate": {
			Post: op("Validate a review item", "reviews"),
		},
		"/reviews/{id}/return": {
			Post: op("Return a review item for rework", "reviews"),
		},
		"/reviews/{id}/reassign": {
			Post: op("Reassign a returned review item", "reviews"),
		},
		"/reviews/validate": {
			Post: op("Batch validate review items", "reviews"),
		},
		"/payroll/employees": {
			Get: op("List employee audit records", "payroll"),
		},
		"/payroll/employees/{id}": {
			Get: op("Find an employee audit record", "payroll"),
		},
		"/payroll/variance/{employeeId}/{payrunId}": {
			Get: op("Derive variance for an employee and payrun", "payroll"),
		},
		"/payroll/reconcile/{employeeId}/{payrunId}": {
			Post: op("Reconcile variance and raise findings", "payroll"),
		},
		"/payroll/variances/{payrunId}": {
			Get: op("List persisted variances for a payrun", "payroll"),
		},
		"/payroll/explanations": {
			Get:  op("List variance explanations", "payroll"),
			Post: op("Record a variance explanation", "payroll"),
		},
		"/evidence": {
			Get:  op("List evidence artifacts", "evidence"),
			Post: op("Upload an evidence artifact", "evidence"),
		},
		"/evidence/{id}": {
			Get:    op("Find an evidence artifact", "evidence"),
			Delete: op("Delete an evidence artifact", "evidence"),
		},
		"/evidence/{id}/download": {
			Get: op("Download artifact content", "evidence"),
		},
		"/checklists": {
			Get:  op("List checklist items", "checklists"),
			Post: op("Create a checklist item", "checklists"),
		},
		"/checklists/{id}": {
			Get: op("Find a checklist item", "checklists"),
		},
		"/checklists/{id}/complete": {
			Post: op("Mark a checklist item complete", "checklists"),
		},
		"/checklists/{id}/not-applicable": {
			Post: op("Mark a checklist item not applicable", "checklists"),
		},
		"/populate": {
			Post: op("Run an evidence auto-population pass", "workflow"),
		},
		"/notifications": {
			Get: op("List notifications", "notifications"),
		},
		"/notifications/{id}/read": {
			Post: op("Mark a notification read", "notifications"),
		},
		"/snapshots/export": {
			Get: op("Export a collection snapshot", "snapshots"),
		},
		"/snapshots/import": {
			Post: op("Import a collection snapshot", "snapshots"),
		},
	})

	return spec
}

func addPaths(spec *openapi.Spec, paths map[string]*openapi.PathItem) {
	for p, item := range paths {
		spec.Paths[p] = item
	}
}

func op(summary, tag string) *openapi.Operation {
	return &openapi.Operation{
		Summary: summary,
		Tags:    []string{tag},
		Responses: map[int]*openapi.Response{
			200: {Description: "OK"},
		},
	}
}
