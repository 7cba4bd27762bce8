package workflow

import (
	"log/slog"

	"github.com/attest-hq/attest/internal/checklists"
	"github.com/attest-hq/attest/internal/evidence"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Domain systems.
type Runtime struct {
	Checklists checklists.System
	Evidence   evidence.System
	Threshold  float64
	Logger     *slog.Logger
}
