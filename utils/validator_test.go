package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpnet/models"
)

func TestValidateCreateEmergencyRequest(t *testing.T) {
	v := NewValidationService()

	err := v.ValidateStruct(models.CreateEmergencyRequest{
		EmergencyType: models.EmergencyTypeMedical,
		Description:   "person collapsed",
		Longitude:     -0.1278,
		Latitude:      51.5074,
	})
	assert.NoError(t, err)
}

func TestValidateRejectsUnknownEmergencyType(t *testing.T) {
	v := NewValidationService()

	err := v.ValidateStruct(models.CreateEmergencyRequest{
		EmergencyType: "volcano",
		Description:   "lava",
		Longitude:     -0.1278,
		Latitude:      51.5074,
	})
	require.Error(t, err)
	se, ok := GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeValidation, se.Code)
}

func TestValidateRejectsOutOfRangeCoordinates(t *testing.T) {
	v := NewValidationService()

	err := v.ValidateStruct(models.UpdateLocationRequest{
		Longitude: 200,
		Latitude:  51.5074,
	})
	require.Error(t, err)
}

func TestValidateRegisterRequest(t *testing.T) {
	v := NewValidationService()

	err := v.ValidateStruct(models.RegisterRequest{
		Name:     "A",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	se, ok := GetServiceError(err)
	require.True(t, ok)
	details, ok := se.Details.([]map[string]string)
	require.True(t, ok)
	assert.NotEmpty(t, details)
}
