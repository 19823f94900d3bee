// internal/handlers/backup.go
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmlink/backend/internal/services"
	"github.com/farmlink/backend/internal/utils"
)

type BackupHandler struct {
	backupService *services.BackupService
}

func NewBackupHandler(backupService *services.BackupService) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
	}
}

// GET /admin/backup
//
// Streams the full snapshot as a downloadable JSON file.
func (h *BackupHandler) Export(c *gin.Context) {
	data, result, err := h.backupService.ExportJSON()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, "application/json", data)
}

// POST /admin/backup/restore
//
// Replaces the entire dataset with the uploaded snapshot.
func (h *BackupHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read request body", nil)
		return
	}
	if len(data) == 0 {
		utils.BadRequestResponse(c, "Empty snapshot", nil)
		return
	}

	result, err := h.backupService.Import(data)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Snapshot restored",
		"restore": result,
	})
}
