// internal/services/backup_service_test.go
package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/backend/internal/config"
)

func TestBackupExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	_, err := env.products.CreateProduct(user.ID, &CreateProductRequest{Name: "Maize", Price: 120})
	require.NoError(t, err)

	backups := NewBackupService(env.store, &config.Config{})

	data, result, err := backups.ExportJSON()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Users)
	assert.Equal(t, 1, result.Products)
	assert.Empty(t, result.S3Key)

	expected := "farmlink-backup-" + time.Now().Format("2006-01-02") + ".json"
	assert.Equal(t, expected, result.Filename)
	assert.True(t, strings.Contains(string(data), "a@x.com"))

	// Restore into a fresh environment.
	dest := newTestEnv(t)
	destBackups := NewBackupService(dest.store, &config.Config{})

	restore, err := destBackups.Import(data)
	require.NoError(t, err)
	assert.Equal(t, 1, restore.Users)

	restored, err := dest.store.GetUserByEmail("a@x.com")
	require.NoError(t, err)
	assert.NoError(t, restored.CheckPassword("pw123456"))
}

func TestBackupImportRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	backups := NewBackupService(env.store, &config.Config{})

	_, err := backups.Import([]byte("not json"))
	assert.Error(t, err)
}
