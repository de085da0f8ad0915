package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lotworks/dealersync/internal/common"
	"github.com/lotworks/dealersync/internal/services"
)

type setSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GetSettings returns all admin-settable configuration values plus the list
// of allowed keys
func GetSettings(svc *services.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		cfgs, err := svc.GetAllSettings(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to load settings")
			return
		}

		common.RespondSuccess(w, initTime, "Settings retrieved", map[string]any{
			"settings":     cfgs,
			"allowed_keys": svc.ListPossibleKeys(),
		})
	}
}

// SetSetting upserts one configuration key. This is how the feed URL and the
// sync interval get configured.
func SetSetting(svc *services.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req setSettingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, errors.New("invalid request body"), "", http.StatusBadRequest)
			return
		}

		if req.Key == "" {
			common.RespondError(w, initTime, errors.New("key is required"), "", http.StatusBadRequest)
			return
		}

		cfgs, err := svc.SetSetting(r.Context(), req.Key, req.Value)
		if err != nil {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}

		common.RespondSuccess(w, initTime, "Setting updated", cfgs)
	}
}
