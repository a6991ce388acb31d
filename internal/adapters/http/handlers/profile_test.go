package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuelquote/internal/adapters/http/dto"
)

func TestProfileHandler_Lifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/profile", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/profile", "user-1", texasProfile())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "TX", body["state"])
	assert.Equal(t, "1 Main St, Houston, TX, 77001", body["deliveryAddress"])

	update := texasProfile()
	update["city"] = "Dallas"
	update["zipcode"] = "75201"

	w = api.do(t, http.MethodPut, "/api/v1/profile", "user-1", update)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/profile", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dallas", decodeBody(t, w)["city"])

	w = api.do(t, http.MethodGet, "/api/v1/profile", "user-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "profiles are per user")
}

func TestProfileHandler_Save_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      any
		wantCode  string
		wantField string
	}{
		{
			name:     "not json",
			body:     "{",
			wantCode: dto.ErrorCodeBadRequest,
		},
		{
			name: "missing city and bad state",
			body: map[string]any{
				"address1": "1 Main St",
				"state":    "Texas",
				"zipcode":  "77001",
			},
			wantCode:  dto.ErrorCodeValidation,
			wantField: "city",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.do(t, http.MethodPost, "/api/v1/profile", "user-1", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			body := decodeBody(t, w)
			errBody := body["error"].(map[string]any)
			assert.Equal(t, tt.wantCode, errBody["code"])

			if tt.wantField != "" {
				details := errBody["details"].(map[string]any)
				assert.Contains(t, details, tt.wantField)
				assert.Contains(t, details, "state")
			}
		})
	}
}

func TestProfileHandler_RequiresCaller(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
