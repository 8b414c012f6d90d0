package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/middleware"
	"helpnet/models"
	"helpnet/services"
	"helpnet/utils"
)

type EmergencyController struct {
	emergencyService *services.EmergencyService
}

func NewEmergencyController(emergencyService *services.EmergencyService) *EmergencyController {
	return &EmergencyController{
		emergencyService: emergencyService,
	}
}

// CreateEmergency reports a new emergency at the caller's location.
func (ec *EmergencyController) CreateEmergency(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var req models.CreateEmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, "Invalid request body")
		return
	}

	result, err := ec.emergencyService.CreateEmergency(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Emergency created successfully", result)
}

func (ec *EmergencyController) GetEmergency(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("emergencyId"))
	if err != nil {
		utils.ErrorResponse(c, utils.NewValidationError("invalid emergency ID", nil))
		return
	}

	emergency, err := ec.emergencyService.GetEmergency(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Emergency retrieved successfully", emergency)
}

func (ec *EmergencyController) ListEmergencies(c *gin.Context) {
	var q models.ListEmergenciesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ValidationErrorResponse(c, "Invalid query parameters")
		return
	}

	emergencies, meta, err := ec.emergencyService.ListEmergencies(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "Emergencies retrieved successfully", emergencies, meta)
}

// ListActive returns every open emergency, newest first.
func (ec *EmergencyController) ListActive(c *gin.Context) {
	emergencies, err := ec.emergencyService.ListActive(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Active emergencies retrieved successfully", emergencies)
}

// ListNearby returns open emergencies around a point.
func (ec *EmergencyController) ListNearby(c *gin.Context) {
	lng, errLng := strconv.ParseFloat(c.Query("longitude"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	if errLng != nil || errLat != nil {
		utils.ErrorResponse(c, utils.NewValidationError("longitude and latitude are required", nil))
		return
	}
	radius, _ := strconv.ParseFloat(c.DefaultQuery("maxDistance", "5000"), 64)

	emergencies, err := ec.emergencyService.ListNearby(c.Request.Context(), lng, lat, radius)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Nearby emergencies retrieved successfully", emergencies)
}

// Respond registers the caller as a responder or advances their status.
func (ec *EmergencyController) Respond(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("emergencyId"))
	if err != nil {
		utils.ErrorResponse(c, utils.NewValidationError("invalid emergency ID", nil))
		return
	}

	emergency, err := ec.emergencyService.Respond(c.Request.Context(), id, userID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Response recorded successfully", emergency)
}

// UpdateStatus changes the emergency lifecycle status.
func (ec *EmergencyController) UpdateStatus(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("emergencyId"))
	if err != nil {
		utils.ErrorResponse(c, utils.NewValidationError("invalid emergency ID", nil))
		return
	}

	var req models.UpdateEmergencyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, "Invalid request body")
		return
	}

	emergency, err := ec.emergencyService.UpdateStatus(c.Request.Context(), id, userID, req.Status)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Emergency status updated successfully", emergency)
}
