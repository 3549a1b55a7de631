package doctor

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	// Decoders exercised by the probe below.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/hay-kot/cull/internal/core/catalog"
)

// PhotosDirCheck verifies that the photo directory exists, is readable, and
// that at least one photo in it can be decoded.
type PhotosDirCheck struct {
	dir string
}

// NewPhotosDirCheck creates a new photo directory check.
func NewPhotosDirCheck(dir string) *PhotosDirCheck {
	return &PhotosDirCheck{dir: dir}
}

func (c *PhotosDirCheck) Name() string {
	return "Photo Directory"
}

func (c *PhotosDirCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.dir)
	switch {
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusFail,
			Detail: "directory does not exist",
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
		return result
	case !info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusFail,
			Detail: "path is not a directory",
		})
		return result
	}

	if _, err := os.ReadDir(c.dir); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusFail,
			Detail: fmt.Sprintf("not readable: %v", err),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.dir,
		Status: StatusPass,
	})

	result.Items = append(result.Items, c.probeDecode())
	return result
}

// probeDecode decodes the first photo found under the directory, verifying
// the image pipeline end to end.
func (c *PhotosDirCheck) probeDecode() CheckItem {
	var candidate string
	_ = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if catalog.HasImageExt(path) {
			candidate = path
			return fs.SkipAll
		}
		return nil
	})

	if candidate == "" {
		return CheckItem{
			Label:  "decode probe",
			Status: StatusWarn,
			Detail: "no photos found to probe",
		}
	}

	f, err := os.Open(candidate)
	if err != nil {
		return CheckItem{
			Label:  "decode probe",
			Status: StatusFail,
			Detail: fmt.Sprintf("open %s: %v", filepath.Base(candidate), err),
		}
	}
	defer func() { _ = f.Close() }()

	if _, _, err := image.Decode(f); err != nil {
		return CheckItem{
			Label:  "decode probe",
			Status: StatusFail,
			Detail: fmt.Sprintf("decode %s: %v", filepath.Base(candidate), err),
		}
	}

	return CheckItem{
		Label:  "decode probe",
		Status: StatusPass,
		Detail: filepath.Base(candidate),
	}
}
