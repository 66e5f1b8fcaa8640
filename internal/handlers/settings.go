// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"templatekit/internal/models"
	"templatekit/internal/store"
)

// Settings groups the configuration handlers. Admin only.
type Settings struct {
	settings *store.SettingStore
}

// NewSettings creates a new Settings handler group.
func NewSettings(settings *store.SettingStore) *Settings {
	return &Settings{settings: settings}
}

// knownSettingKeys is the closed set of keys the API accepts. Unknown
// keys are rejected rather than silently stored.
var knownSettingKeys = map[string]bool{
	models.SettingUsageTracking:    true,
	models.SettingEnabledPostTypes: true,
	models.SettingDefaultCategory:  true,
	models.SettingSelectorPosition: true,
	models.SettingCopyableMetaKeys: true,
}

// Get returns all settings as a key/value map.
func (h *Settings) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

// Update upserts the submitted settings in one transaction.
func (h *Settings) Update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "A JSON object of setting keys and values is required.")
		return
	}
	if len(req) == 0 {
		respondValidation(w, "At least one setting is required.")
		return
	}

	for key, value := range req {
		if !knownSettingKeys[key] {
			respondValidation(w, "Unknown setting key: "+key+".")
			return
		}
		if key == models.SettingSelectorPosition && !models.ValidSelectorPosition(value) {
			respondValidation(w, "Selector position must be after_title, sidebar, or above_editor.")
			return
		}
	}

	if err := h.settings.SetMany(req); err != nil {
		respondError(w, err)
		return
	}

	settings, err := h.settings.All()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"settings": settings})
}
