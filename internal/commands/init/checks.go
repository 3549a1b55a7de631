package initcmd

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/hay-kot/cull/internal/core/doctor"
)

// InitCheck validates the init wizard results.
type InitCheck struct {
	configPath string
	photosDir  string
}

// NewInitCheck creates a new init validation check.
func NewInitCheck(configPath, photosDir string) *InitCheck {
	return &InitCheck{configPath: configPath, photosDir: photosDir}
}

func (c *InitCheck) Name() string {
	return "Init Validation"
}

func (c *InitCheck) Run(ctx context.Context) doctor.Result {
	result := doctor.Result{Name: c.Name()}

	result.Items = append(result.Items, c.checkConfigFile())
	result.Items = append(result.Items, c.checkPhotosDir())
	result.Items = append(result.Items, c.checkTerminal())

	return result
}

func (c *InitCheck) checkConfigFile() doctor.CheckItem {
	if _, err := os.Stat(c.configPath); err != nil {
		return doctor.CheckItem{
			Label:  "Config file",
			Status: doctor.StatusFail,
			Detail: c.configPath + " not found",
		}
	}
	return doctor.CheckItem{
		Label:  "Config file",
		Status: doctor.StatusPass,
		Detail: c.configPath,
	}
}

func (c *InitCheck) checkPhotosDir() doctor.CheckItem {
	info, err := os.Stat(c.photosDir)
	if err != nil {
		return doctor.CheckItem{
			Label:  "Photo directory",
			Status: doctor.StatusWarn,
			Detail: c.photosDir + " does not exist yet",
		}
	}
	if !info.IsDir() {
		return doctor.CheckItem{
			Label:  "Photo directory",
			Status: doctor.StatusFail,
			Detail: c.photosDir + " is not a directory",
		}
	}
	if _, err := os.ReadDir(c.photosDir); err != nil {
		return doctor.CheckItem{
			Label:  "Photo directory",
			Status: doctor.StatusFail,
			Detail: fmt.Sprintf("not readable: %v", err),
		}
	}
	return doctor.CheckItem{
		Label:  "Photo directory",
		Status: doctor.StatusPass,
		Detail: c.photosDir,
	}
}

func (c *InitCheck) checkTerminal() doctor.CheckItem {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return doctor.CheckItem{
			Label:  "Terminal",
			Status: doctor.StatusWarn,
			Detail: "size not detectable",
		}
	}
	return doctor.CheckItem{
		Label:  "Terminal",
		Status: doctor.StatusPass,
		Detail: fmt.Sprintf("%dx%d", w, h),
	}
}
