package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/cull/internal/core/catalog"
)

// TrashCheck verifies that the trash directory is writable, or reports the
// permanent delete mode as a warning.
type TrashCheck struct {
	mode     catalog.DeleteMode
	trashDir string
}

// NewTrashCheck creates a new trash directory check.
func NewTrashCheck(mode catalog.DeleteMode, trashDir string) *TrashCheck {
	return &TrashCheck{mode: mode, trashDir: trashDir}
}

func (c *TrashCheck) Name() string {
	return "Trash"
}

func (c *TrashCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.mode == catalog.DeleteModePermanent {
		result.Items = append(result.Items, CheckItem{
			Label:  "delete mode",
			Status: StatusWarn,
			Detail: "permanent: deleted photos are unrecoverable",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "delete mode",
		Status: StatusPass,
		Detail: "trash",
	})

	if err := os.MkdirAll(c.trashDir, 0o755); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.trashDir,
			Status: StatusFail,
			Detail: fmt.Sprintf("cannot create: %v", err),
		})
		return result
	}

	probe := filepath.Join(c.trashDir, ".cull-doctor-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.trashDir,
			Status: StatusFail,
			Detail: fmt.Sprintf("not writable: %v", err),
		})
		return result
	}
	_ = os.Remove(probe)

	result.Items = append(result.Items, CheckItem{
		Label:  c.trashDir,
		Status: StatusPass,
	})
	return result
}
