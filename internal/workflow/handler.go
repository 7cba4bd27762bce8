package workflow

import (
	"log/slog"
	"net/http"

	"github.com/attest-hq/attest/pkg/handlers"
	"github.com/attest-hq/attest/pkg/routes"
)

// Handler provides the HTTP endpoint that triggers an auto-population pass.
type Handler struct {
	rt     *Runtime
	logger *slog.Logger
}

// NewHandler creates a Handler with the given runtime and logger.
func NewHandler(rt *Runtime, logger *slog.Logger) *Handler {
	return &Handler{
		rt:     rt,
		logger: logger.With("handler", "populate"),
	}
}

// Routes returns the route group definition for the population endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/populate",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Run},
		},
	}
}

// Run executes an auto-population pass across all checklist items and
// returns the per-item outcomes.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := Execute(r.Context(), h.rt)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
