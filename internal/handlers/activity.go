// internal/handlers/activity.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/services"
	"github.com/farmlink/backend/internal/utils"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// clientTrackedTypes lists the activity types a client may report directly.
// Everything else is recorded server-side by the owning service.
var clientTrackedTypes = map[models.ActivityType]bool{
	models.ActivityBuyerContacted:    true,
	models.ActivityWeatherCheck:      true,
	models.ActivityMarketplaceBrowse: true,
	models.ActivityResourceViewed:    true,
	models.ActivityContactSubmitted:  true,
}

// POST /activities
func (h *ActivityHandler) Track(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		Type    models.ActivityType `json:"type" validate:"required"`
		Payload models.JSONMap      `json:"payload,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if !clientTrackedTypes[req.Type] {
		utils.BadRequestResponse(c, "Activity type cannot be tracked directly", nil)
		return
	}

	activity, err := h.activityService.Record(userID, req.Type, req.Payload)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.CreatedResponse(c, gin.H{"activity": activity.Entry()})
}

// GET /activities?limit=20
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	activities, err := h.activityService.Recent(userID, limit)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	entries := make([]models.ActivityEntry, 0, len(activities))
	for i := range activities {
		entries = append(entries, activities[i].Entry())
	}

	utils.SuccessResponse(c, gin.H{"activities": entries})
}
