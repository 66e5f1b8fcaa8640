// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category is an organizational tag attached to templates. Icon is a
// symbolic name from a curated set; Color is a CSS hex triplet used to
// tint the category badge in the selector UI.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	TemplateCount int `json:"template_count"`
}

// CategorySummary is the category shape embedded in template summaries.
type CategorySummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CategoryIcons is the curated set of symbolic icon names a category may
// use. The selector UI maps these to its own glyphs.
var CategoryIcons = []string{
	"businessman",
	"hammer",
	"megaphone",
	"calendar",
	"post",
	"page",
	"document",
	"clipboard",
	"list",
	"portfolio",
	"book",
	"groups",
	"building",
	"awards",
	"star",
}

// ValidCategoryIcon reports whether the icon name is in the curated set.
// The empty string is allowed (no icon).
func ValidCategoryIcon(icon string) bool {
	if icon == "" {
		return true
	}
	for _, name := range CategoryIcons {
		if name == icon {
			return true
		}
	}
	return false
}
