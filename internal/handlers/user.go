// internal/handlers/user.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/services"
	"github.com/farmlink/backend/internal/store"
	"github.com/farmlink/backend/internal/utils"
)

type UserHandler struct {
	profileService  *services.ProfileService
	activityService *services.ActivityService
	statsService    *services.StatsService
}

func NewUserHandler(profileService *services.ProfileService, activityService *services.ActivityService, statsService *services.StatsService) *UserHandler {
	return &UserHandler{
		profileService:  profileService,
		activityService: activityService,
		statsService:    statsService,
	}
}

type UpdateProfileRequest struct {
	FullName   string `json:"fullName,omitempty" validate:"omitempty,max=255"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Location   string `json:"location,omitempty" validate:"omitempty,max=255"`
	FarmSize   string `json:"farmSize,omitempty" validate:"omitempty,max=100"`
	FarmType   string `json:"farmType,omitempty" validate:"omitempty,max=100"`
	Experience string `json:"experience,omitempty" validate:"omitempty,max=100"`
	Bio        string `json:"bio,omitempty"`
}

// GET /users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFoundResponse(c, "User")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// PUT /users/profile
//
// Profile edits flow through the activity log so the recentActivity view and
// the profile fields stay in step.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	payload := models.JSONMap{}
	if req.FullName != "" {
		payload["fullName"] = req.FullName
	}
	if req.Phone != "" {
		payload["phone"] = req.Phone
	}
	if req.Location != "" {
		payload["location"] = req.Location
	}
	if req.FarmSize != "" {
		payload["farmSize"] = req.FarmSize
	}
	if req.FarmType != "" {
		payload["farmType"] = req.FarmType
	}
	if req.Experience != "" {
		payload["experience"] = req.Experience
	}
	if req.Bio != "" {
		payload["bio"] = req.Bio
	}

	if len(payload) == 0 {
		utils.BadRequestResponse(c, "No profile fields to update", nil)
		return
	}

	if _, err := h.activityService.Record(userID, models.ActivityProfileUpdated, payload); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// GET /users/dashboard
func (h *UserHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFoundResponse(c, "User")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	recent, err := h.activityService.Recent(userID, 5)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	recentEntries := make([]models.ActivityEntry, 0, len(recent))
	for i := range recent {
		recentEntries = append(recentEntries, recent[i].Entry())
	}

	utils.SuccessResponse(c, gin.H{
		"stats":            user.Stats,
		"recentActivity":   recentEntries,
		"financialSummary": user.Dashboard.FinancialSummary,
		"inventory":        user.Dashboard.Inventory,
		"orders":           user.Dashboard.Orders,
		"achievements":     user.Achievements,
	})
}

// POST /users/achievements
func (h *UserHandler) UnlockAchievement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		Achievement string `json:"achievement" validate:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if _, err := h.activityService.Record(userID, models.ActivityAchievementUnlocked, models.JSONMap{
		"achievement": req.Achievement,
	}); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"achievements": user.Achievements})
}

// POST /users/reconcile
//
// Recounts derived listing totals from the product collection.
func (h *UserHandler) ReconcileStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	changed, err := h.statsService.Reconcile(userID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"reconciled": changed})
}
