package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpnet/middleware"
	"helpnet/models"
	"helpnet/services"
	"helpnet/utils"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	user, err := uc.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", user)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, "Invalid request body")
		return
	}

	user, err := uc.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", user)
}

// UpdateLocation stores the caller's current position.
func (uc *UserController) UpdateLocation(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, "Invalid request body")
		return
	}

	if err := uc.userService.UpdateLocation(c.Request.Context(), userID, req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Location updated successfully", nil)
}

func (uc *UserController) RegisterDeviceToken(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var req models.DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, "Invalid request body")
		return
	}

	if err := uc.userService.RegisterDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device token registered successfully", nil)
}

func (uc *UserController) RemoveDeviceToken(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var req models.DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, "Invalid request body")
		return
	}

	if err := uc.userService.RemoveDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device token removed successfully", nil)
}
