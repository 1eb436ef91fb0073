package handlers

import (
	"net/http"
	"strings"

	"github.com/video-stream/captions/internal/db"
)

const secretMask = "••••••••"

// settingsKeys defines which keys are allowed and their display metadata
var settingsKeys = []SettingDef{
	{Key: "supadata_api_key", Label: "Supadata API Key", Group: "transcript", Placeholder: "sd_...", Secret: true},
	{Key: "summary_engine", Label: "Summary Engine", Group: "summary", Placeholder: "openai", Secret: false},
	{Key: "openai_api_key", Label: "OpenAI API Key", Group: "summary", Placeholder: "sk-...", Secret: true},
	{Key: "openai_model", Label: "OpenAI Model", Group: "summary", Placeholder: "gpt-4o", Secret: false},
	{Key: "gemini_api_key", Label: "Gemini API Key", Group: "summary", Placeholder: "AIza...", Secret: true},
	{Key: "gemini_model", Label: "Gemini Model", Group: "summary", Placeholder: "gemini-2.0-flash", Secret: false},
}

type SettingDef struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Group       string `json:"group"`
	Placeholder string `json:"placeholder"`
	Secret      bool   `json:"secret"`
}

type settingResponse struct {
	SettingDef
	Value    string `json:"value"`
	HasValue bool   `json:"has_value"`
}

type SettingsHandler struct {
	database *db.Database
}

func NewSettingsHandler(database *db.Database) *SettingsHandler {
	return &SettingsHandler{database: database}
}

// maskSecret shows only the last 4 characters of a secret.
func maskSecret(val string) string {
	r := []rune(val)
	if len(r) > 4 {
		return secretMask + string(r[len(r)-4:])
	}
	return secretMask
}

// GetSettings returns all settings (secrets are masked)
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.database.GetAllSettings()
	if err != nil {
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	result := make([]settingResponse, 0, len(settingsKeys))
	for _, def := range settingsKeys {
		val := all[def.Key]
		hasValue := val != ""
		if def.Secret && hasValue {
			val = maskSecret(val)
		}
		result = append(result, settingResponse{
			SettingDef: def,
			Value:      val,
			HasValue:   hasValue,
		})
	}

	jsonResponse(w, result, http.StatusOK)
}

// UpdateSettings saves settings from the request body. Unknown keys and
// masked values echoed back by the client are ignored; an empty value
// clears the setting.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if !decodeJSON(w, r, &updates) {
		return
	}

	allowed := make(map[string]bool)
	for _, def := range settingsKeys {
		allowed[def.Key] = true
	}

	for key, value := range updates {
		if !allowed[key] || strings.HasPrefix(value, secretMask) {
			continue
		}
		if err := h.database.SetSetting(key, strings.TrimSpace(value)); err != nil {
			jsonError(w, "failed to save setting: "+key, http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
