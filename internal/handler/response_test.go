package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", apperror.ValidationFailed("email", "a valid email is required"), 400, "validation_error"},
		{"unauthorized", apperror.Unauthorized("invalid password"), 401, "unauthorized"},
		{"forbidden", apperror.Forbidden("insufficient permission"), 403, "forbidden"},
		{"not found", apperror.NotFound("workspace not found"), 404, "not_found"},
		{"conflict", apperror.Conflict("email already exists"), 409, "conflict"},
		{"internal", apperror.Internal(errors.New("boom"), "owner role not found"), 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)

			var body ErrorResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantType, body.Error)
		})
	}
}

func TestWriteErrorWrappedTaxonomy(t *testing.T) {
	// Extra %w context added along the way must not change the mapping.
	err := fmt.Errorf("joining workspace: %w", apperror.Conflict("you are already a member of this workspace"))

	rr := httptest.NewRecorder()
	writeError(rr, err)

	assert.Equal(t, 409, rr.Code)
}

func TestWriteErrorRedactsInternalDetail(t *testing.T) {
	err := apperror.Internal(errors.New("dial tcp 10.0.0.5:5432: connection refused"), "could not load role")

	rr := httptest.NewRecorder()
	writeError(rr, err)

	var body ErrorResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "An internal error occurred", body.Message)
	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}

func TestWriteErrorUnclassified(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, errors.New("something unexpected"))

	assert.Equal(t, 500, rr.Code)

	var body ErrorResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "An internal error occurred", body.Message)
}

func TestWriteErrorValidationField(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, apperror.ValidationFailed("password", "password must be at least 8 characters"))

	var body ErrorResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "password", body.Field)
	assert.Equal(t, "password must be at least 8 characters", body.Message)
}
