package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/cull/internal/core/catalog"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	photosDir := t.TempDir()
	return &Config{
		Photos: PhotosConfig{Dir: photosDir},
		Delete: DeleteConfig{
			Mode:     string(catalog.DeleteModeTrash),
			TrashDir: filepath.Join(photosDir, ".cull-trash"),
		},
		Swipe:   SwipeConfig{Threshold: 12},
		DataDir: t.TempDir(),
	}
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Photos.Include = []string{"**/*.jpg", "**/*.png"}
	cfg.Photos.Exclude = []string{"edits/**"}
	cfg.Keybindings = map[string]Keybinding{
		"o": {Sh: "open {{ .Path | shq }}", Help: "open"},
		"g": {Sh: "gimp {{ .Path | shq }} &", Help: "edit"},
	}

	err := cfg.ValidateDeep("")
	assert.NoError(t, err, "expected valid config")
}

func TestValidateDeep_StructuralErrorsComeFirst(t *testing.T) {
	cfg := validConfig(t)
	cfg.Swipe.Threshold = 0

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swipe.threshold")
}

func TestValidateDeep_InvalidIncludePattern(t *testing.T) {
	cfg := validConfig(t)
	cfg.Photos.Include = []string{"**/*.jpg", "[invalid"}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "photos.include[1]")
	assert.Contains(t, fieldErrs[0].Err.Error(), "invalid pattern")
}

func TestValidateDeep_InvalidExcludePattern(t *testing.T) {
	cfg := validConfig(t)
	cfg.Photos.Exclude = []string{"[invalid"}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "photos.exclude[0]")
}

func TestValidateDeep_InvalidShTemplate(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keybindings = map[string]Keybinding{
		"o": {Sh: "open {{ .Path }"},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "keybindings.o.sh")
	assert.Contains(t, fieldErrs[0].Err.Error(), "template error")
}

func TestValidateDeep_ShTemplateUnknownField(t *testing.T) {
	cfg := validConfig(t)
	cfg.Keybindings = map[string]Keybinding{
		"o": {Sh: "open {{ .Nope }}"},
	}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs[0].Field, "keybindings.o.sh")
}

func TestValidateDeep_PhotosDirNotFound(t *testing.T) {
	cfg := validConfig(t)
	cfg.Photos.Dir = filepath.Join(t.TempDir(), "does-not-exist")

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	hasPhotosError := false
	for _, e := range fieldErrs {
		if e.Field == "photos.dir" {
			hasPhotosError = true
			break
		}
	}
	assert.True(t, hasPhotosError, "expected error about photos dir")
}

func TestValidateDeep_PhotosDirIsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notadir")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

	cfg := validConfig(t)
	cfg.Photos.Dir = tmpFile

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	hasPhotosError := false
	for _, e := range fieldErrs {
		if e.Field == "photos.dir" {
			hasPhotosError = true
			break
		}
	}
	assert.True(t, hasPhotosError, "expected error about photos dir")
}

func TestValidateDeep_MissingTrashDirIsFine(t *testing.T) {
	cfg := validConfig(t)
	cfg.Delete.TrashDir = filepath.Join(cfg.Photos.Dir, "not-created-yet")

	err := cfg.ValidateDeep("")
	assert.NoError(t, err, "trash dir is created on demand")
}

func TestValidateDeep_TrashDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	trashFile := filepath.Join(cfg.Photos.Dir, "trash")
	require.NoError(t, os.WriteFile(trashFile, []byte("x"), 0o644))
	cfg.Delete.TrashDir = trashFile

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	hasTrashError := false
	for _, e := range fieldErrs {
		if e.Field == "delete.trash_dir" {
			hasTrashError = true
			break
		}
	}
	assert.True(t, hasTrashError, "expected error about trash dir")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notadir")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

	cfg := validConfig(t)
	cfg.DataDir = tmpFile

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	hasDataDirError := false
	for _, e := range fieldErrs {
		if e.Field == "data_dir" {
			hasDataDirError = true
			break
		}
	}
	assert.True(t, hasDataDirError, "expected error about data dir")
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := validConfig(t)

	err := cfg.ValidateDeep(tmpDir)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	hasConfigError := false
	for _, e := range fieldErrs {
		if e.Field == "config_file" {
			hasConfigError = true
			break
		}
	}
	assert.True(t, hasConfigError, "expected error about config file being a directory")
}

func TestValidateDeep_ConfigFileNotFoundIsFine(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(filepath.Join(t.TempDir(), "cull.yml"))
	assert.NoError(t, err)
}

func TestWarnings_PermanentMode(t *testing.T) {
	cfg := validConfig(t)
	cfg.Delete.Mode = string(catalog.DeleteModePermanent)

	warnings := cfg.Warnings()

	hasWarning := false
	for _, w := range warnings {
		if w.Category == "Delete" && w.Item == "mode" {
			hasWarning = true
			break
		}
	}
	assert.True(t, hasWarning, "expected warning about permanent mode")
}

func TestWarnings_ZeroMinVelocity(t *testing.T) {
	zero := 0.0
	cfg := validConfig(t)
	cfg.Swipe.MinVelocity = &zero

	warnings := cfg.Warnings()

	hasWarning := false
	for _, w := range warnings {
		if w.Category == "Swipe" && w.Item == "min_velocity" {
			hasWarning = true
			break
		}
	}
	assert.True(t, hasWarning, "expected warning about zero min velocity")
}

func TestWarnings_CleanConfigHasNone(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())
}
