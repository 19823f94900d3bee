// internal/handlers/weather.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/services"
	"github.com/farmlink/backend/internal/utils"
)

type WeatherHandler struct {
	weatherService  *services.WeatherService
	activityService *services.ActivityService
}

func NewWeatherHandler(weatherService *services.WeatherService, activityService *services.ActivityService) *WeatherHandler {
	return &WeatherHandler{
		weatherService:  weatherService,
		activityService: activityService,
	}
}

// GET /weather?location=Accra
//
// Public endpoint. When the request is authenticated a weather_check activity
// is recorded for the user.
func (h *WeatherHandler) Current(c *gin.Context) {
	location := c.Query("location")

	report, err := h.weatherService.GetCurrentWeather(c.Request.Context(), location)
	if err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			utils.NotFoundResponse(c, "Location")
			return
		}
		utils.ErrorResponse(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Weather service unavailable", nil)
		return
	}

	if userID, ok := currentUserID(c); ok {
		if _, err := h.activityService.Record(userID, models.ActivityWeatherCheck, models.JSONMap{
			"location": report.Location,
		}); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("Failed to record weather activity")
		}
	}

	utils.SuccessResponse(c, gin.H{"weather": report})
}
