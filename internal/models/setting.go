// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strconv"
	"strings"
)

// Setting keys stored in the settings table. Values are strings; typed
// access goes through the Settings accessors below.
const (
	SettingUsageTracking    = "usage_tracking_enabled"
	SettingEnabledPostTypes = "enabled_post_types"
	SettingDefaultCategory  = "default_category_id"
	SettingSelectorPosition = "selector_position"
	SettingCopyableMetaKeys = "copyable_meta_keys"
)

// Selector positions accepted for the selector_position setting.
const (
	SelectorAfterTitle  = "after_title"
	SelectorSidebar     = "sidebar"
	SelectorAboveEditor = "above_editor"
)

// ValidSelectorPosition reports whether v is an accepted selector position.
func ValidSelectorPosition(v string) bool {
	switch v {
	case SelectorAfterTitle, SelectorSidebar, SelectorAboveEditor:
		return true
	}
	return false
}

// Settings is the full configuration map as a convenience type with
// typed accessors. Missing keys fall back to defaults.
type Settings map[string]string

// UsageTrackingEnabled reports whether successful template applications
// should be recorded. Defaults to true when unset.
func (s Settings) UsageTrackingEnabled() bool {
	v, ok := s[SettingUsageTracking]
	if !ok {
		return true
	}
	return v != "false" && v != "0"
}

// EnabledPostTypes returns the post types the template selector is
// offered for. Defaults to ["post"].
func (s Settings) EnabledPostTypes() []string {
	return splitList(s[SettingEnabledPostTypes], []string{"post"})
}

// DefaultCategoryID returns the default category for new templates, or
// zero when none is configured.
func (s Settings) DefaultCategoryID() int64 {
	id, _ := strconv.ParseInt(s[SettingDefaultCategory], 10, 64)
	return id
}

// SelectorPosition returns where the selector UI is placed in the editor.
func (s Settings) SelectorPosition() string {
	switch v := s[SettingSelectorPosition]; v {
	case SelectorAfterTitle, SelectorSidebar, SelectorAboveEditor:
		return v
	}
	return SelectorAfterTitle
}

// CopyableMetaKeys returns the allow-list of meta keys the application
// engine copies from template to post. Empty by default.
func (s Settings) CopyableMetaKeys() []string {
	return splitList(s[SettingCopyableMetaKeys], nil)
}

// splitList parses a comma-separated setting value, trimming whitespace
// and dropping empty entries.
func splitList(v string, fallback []string) []string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
