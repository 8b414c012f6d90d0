package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"helpnet/models"
)

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func SuccessResponseWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *models.MetaData) {
	c.JSON(statusCode, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Timestamp: time.Now(),
	})
}

func ErrorResponse(c *gin.Context, err error) {
	if se, ok := GetServiceError(err); ok {
		if se.StatusCode >= http.StatusInternalServerError {
			logrus.Errorf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(se.StatusCode, models.APIResponse{
			Success: false,
			Message: se.Message,
			Error: &models.APIError{
				Code:    se.Code,
				Message: se.Message,
				Details: se.Details,
			},
			Timestamp: time.Now(),
		})
		return
	}

	logrus.Errorf("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, models.APIResponse{
		Success: false,
		Message: "Internal server error",
		Error: &models.APIError{
			Code:    models.ErrCodeInternal,
			Message: "Internal server error",
		},
		Timestamp: time.Now(),
	})
}

func ValidationErrorResponse(c *gin.Context, details interface{}) {
	ErrorResponse(c, NewValidationError("Request validation failed", details))
}
