package api

import (
	"net/http"

	"github.com/attest-hq/attest/internal/config"
	"github.com/attest-hq/attest/internal/workflow"
	"github.com/attest-hq/attest/pkg/openapi"
	"github.com/attest-hq/attest/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	storageHandler := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		cfg.Storage.MaxListSize,
	)

	workflowHandler := workflow.NewHandler(domain.Workflow, runtime.Logger)

	routes.Register(
		mux,
		domain.Notifications.Handler().Routes(),
		domain.Findings.Handler().Routes(),
		domain.Reviews.Handler().Routes(),
		domain.Payroll.Handler().Routes(),
		domain.Evidence.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Checklists.Handler().Routes(),
		domain.Snapshots.Handler().Routes(),
		workflowHandler.Routes(),
		storageHandler.routes(),
	)

	specBytes, err := openapi.MarshalJSON(BuildSpec(cfg))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
