package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: trip not found", New("NOT_FOUND", "trip not found", "", http.StatusNotFound).Error())
	assert.Equal(t, "VALIDATION_ERROR: days is required (days)", Validation("days is required", "days").Error())

	var nilErr *APIError
	assert.Equal(t, "", nilErr.Error())
}

func TestAPIError_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create trip: %w", Validation("budget must be one of: Lujo Aventura Relax Cultural", "budget"))

	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	assert.Equal(t, "budget", apiErr.Details)
}
