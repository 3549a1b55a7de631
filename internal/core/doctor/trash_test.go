package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrashCheck_PermanentModeWarns(t *testing.T) {
	check := NewTrashCheck(catalog.DeleteModePermanent, "")
	result := check.Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "unrecoverable")
}

func TestTrashCheck_TrashWritable(t *testing.T) {
	trashDir := filepath.Join(t.TempDir(), ".cull-trash")

	check := NewTrashCheck(catalog.DeleteModeTrash, trashDir)
	result := check.Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.DirExists(t, trashDir)
}

func TestTrashCheck_CannotCreate(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	check := NewTrashCheck(catalog.DeleteModeTrash, filepath.Join(blocker, "trash"))
	result := check.Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusFail, result.Items[1].Status)
	assert.Contains(t, result.Items[1].Detail, "cannot create")
}
